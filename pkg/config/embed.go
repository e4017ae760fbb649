package config

import (
	_ "embed"
	"errors"
)

//go:embed embedded/defaults.yml
var defaultConfig []byte

// rawBytesProvider implements the koanf provider interface for in-memory
// bytes.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
