package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// bodySource is the pair of inline body and body file for one field.
type bodySource struct {
	field  string
	inline any
	path   string
}

func (b bodySource) set() bool {
	return b.inline != nil || b.path != ""
}

// pick returns the first configured source, or the last one when none is.
func pick(sources ...bodySource) bodySource {
	for _, s := range sources {
		if s.set() {
			return s
		}
	}
	return sources[len(sources)-1]
}

// resolve returns the canonical JSON value of the body, reading the body file
// relative to baseDir when one is configured.
func (b bodySource) resolve(baseDir string, readFile func(string) ([]byte, error)) (any, error) {
	if b.path == "" {
		v, err := normalize(b.inline)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.field, err)
		}
		return v, nil
	}

	path := ResolvePath(baseDir, b.path)
	data, err := readFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%sPath: file not found: %s", b.field, path)
		}
		return nil, fmt.Errorf("%sPath: reading %s: %w", b.field, path, err)
	}
	v, err := decodeBody(path, data)
	if err != nil {
		return nil, fmt.Errorf("%sPath: parsing %s: %w", b.field, path, err)
	}
	return v, nil
}

// decodeBody parses a body file by extension. Files that are neither JSON
// nor YAML are used as text.
func decodeBody(path string, data []byte) (any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return normalize(v)
	default:
		return string(data), nil
	}
}

// normalize converts a decoded YAML value to the value encoding/json would
// produce for the same document.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("unsupported value: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolvePath resolves path relative to baseDir unless it is absolute.
func ResolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
