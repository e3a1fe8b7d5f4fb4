package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSLoader reads pre-generated schemas named <dir>/<TypeName>.json.
type FSLoader struct {
	dir string
}

// NewFSLoader creates a loader rooted at dir.
func NewFSLoader(dir string) *FSLoader {
	return &FSLoader{dir: dir}
}

// Dir returns the directory the loader reads from.
func (l *FSLoader) Dir() string {
	return l.dir
}

// Load reads and decodes the schema file for typeName.
func (l *FSLoader) Load(ctx context.Context, typeName string) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validTypeName(typeName) {
		return nil, &NotFoundError{TypeName: typeName}
	}

	data, err := os.ReadFile(FilePath(l.dir, typeName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{TypeName: typeName}
		}
		return nil, &GenerationError{TypeName: typeName, Err: err}
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, &GenerationError{TypeName: typeName, Err: fmt.Errorf("invalid JSON schema file: %w", err)}
	}
	if def == nil {
		return nil, &GenerationError{TypeName: typeName, Err: errors.New("schema file does not contain an object")}
	}
	return def, nil
}

// WriteFile stores def as <dir>/<typeName>.json so an FSLoader over dir can
// load it. The directory is created if needed.
func WriteFile(dir, typeName string, def Definition) error {
	if !validTypeName(typeName) {
		return fmt.Errorf("invalid type name %q", typeName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create schema directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema for %s: %w", typeName, err)
	}
	data = append(data, '\n')

	path := FilePath(dir, typeName)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename schema file: %w", err)
	}
	return nil
}

// FilePath is where the schema for typeName lives under dir.
func FilePath(dir, typeName string) string {
	return filepath.Join(dir, typeName+".json")
}

// validTypeName rejects names that would escape the schema directory.
func validTypeName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}
