package mlmodel

import (
	"bytes"
	"encoding/gob"
)

// YieldRow is the raw input row for the yield model. Area and Item stay as
// text until the preprocessor one-hot encodes them.
type YieldRow struct {
	Year       int
	Rainfall   float64
	Pesticides float64
	AvgTemp    float64
	Area       string
	Item       string
}

// TablePreprocessor is the fitted transform in front of the yield regressor:
// numeric columns pass through, Area and Item are one-hot encoded against the
// category lists frozen at training time. Unknown categories encode to
// all-zero blocks rather than erroring, matching the fitted transform's
// ignore-unknown behavior.
type TablePreprocessor struct {
	areas   []string
	items   []string
	areaIdx map[string]int
	itemIdx map[string]int
}

func NewTablePreprocessor(areas, items []string) *TablePreprocessor {
	p := &TablePreprocessor{areas: areas, items: items}
	p.buildIndex()
	return p
}

func (p *TablePreprocessor) buildIndex() {
	p.areaIdx = make(map[string]int, len(p.areas))
	for i, a := range p.areas {
		p.areaIdx[a] = i
	}
	p.itemIdx = make(map[string]int, len(p.items))
	for i, it := range p.items {
		p.itemIdx[it] = i
	}
}

// NumFeatures is the width of the transformed vector.
func (p *TablePreprocessor) NumFeatures() int {
	return 4 + len(p.areas) + len(p.items)
}

// Transform produces the regressor's input vector: the four numeric columns
// followed by the Area and Item one-hot blocks.
func (p *TablePreprocessor) Transform(row YieldRow) []float64 {
	out := make([]float64, p.NumFeatures())
	out[0] = float64(row.Year)
	out[1] = row.Rainfall
	out[2] = row.Pesticides
	out[3] = row.AvgTemp
	if i, ok := p.areaIdx[row.Area]; ok {
		out[4+i] = 1
	}
	if i, ok := p.itemIdx[row.Item]; ok {
		out[4+len(p.areas)+i] = 1
	}
	return out
}

type preprocessorState struct {
	Areas []string
	Items []string
}

func (p *TablePreprocessor) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	state := preprocessorState{Areas: p.areas, Items: p.items}
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *TablePreprocessor) GobDecode(data []byte) error {
	var state preprocessorState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return err
	}
	p.areas = state.Areas
	p.items = state.Items
	p.buildIndex()
	return nil
}
