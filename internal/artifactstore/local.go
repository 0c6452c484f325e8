package artifactstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type localConfig struct {
	Dir string `json:"dir"`
}

type localStore struct {
	dir string
}

func init() {
	Register("local", createLocalStore)
}

func createLocalStore(args interface{}) (Store, error) {
	config := &localConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	if config.Dir == "" {
		return nil, fmt.Errorf("local model store dir is required")
	}
	return &localStore{dir: config.Dir}, nil
}

func (s *localStore) Get(ctx context.Context, key string) ([]byte, error) {
	_ = ctx
	key = strings.TrimPrefix(key, "/")
	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "..") {
		return nil, fmt.Errorf("invalid artifact key: %s", key)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, cleaned))
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", key, err)
	}
	return data, nil
}
