package mlmodel

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// LabelCodec is a frozen label<->code mapping built at training time. Codes
// are dense, starting at zero, in the order labels were first seen. Lookups
// never mutate the codec, so it is safe for concurrent use after load.
type LabelCodec struct {
	labels []string
	index  map[string]int
}

func NewLabelCodec(labels []string) *LabelCodec {
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		if _, ok := index[label]; !ok {
			index[label] = i
		}
	}
	return &LabelCodec{labels: labels, index: index}
}

func (c *LabelCodec) Encode(label string) (int, bool) {
	code, ok := c.index[label]
	return code, ok
}

// Decode maps a code back to its label. An out-of-range code means the model
// emitted a class it was never trained on, which is an invariant violation.
func (c *LabelCodec) Decode(code int) (string, error) {
	if code < 0 || code >= len(c.labels) {
		return "", fmt.Errorf("%w: code %d with %d labels", ErrCodeOutOfRange, code, len(c.labels))
	}
	return c.labels[code], nil
}

func (c *LabelCodec) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

func (c *LabelCodec) Len() int {
	return len(c.labels)
}

func (c *LabelCodec) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c.labels); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *LabelCodec) GobDecode(data []byte) error {
	var labels []string
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&labels); err != nil {
		return err
	}
	*c = *NewLabelCodec(labels)
	return nil
}
