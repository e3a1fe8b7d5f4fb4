package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Common errors for config file loading.
var (
	ErrFileNotFound     = errors.New("config file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("config file is empty")
	ErrNoMatches        = errors.New("pattern matched no files")
)

// LoadFile reads the declarations in a YAML or JSON config file. Each
// declaration is stamped with the file path and its index in the file.
func LoadFile(path string) ([]RawConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	raws, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for i := range raws {
		raws[i].Source = path
		raws[i].Index = i
	}
	return raws, nil
}

// Parse decodes a list of declarations. JSON documents are accepted as YAML.
func Parse(data []byte) ([]RawConfig, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if len(node.Content) == 0 {
		return nil, ErrEmptyFile
	}
	root := node.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: expected a list of contracts at line %d", ErrInvalidYAML, root.Line)
	}

	var raws []RawConfig
	if err := root.Decode(&raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return raws, nil
}

// LoadFiles loads every file in paths. Files that fail to load are reported
// together in a *ValidationError.
func LoadFiles(paths []string) ([]RawConfig, error) {
	var (
		verr ValidationError
		out  []RawConfig
	)
	for _, path := range paths {
		raws, err := LoadFile(path)
		if err != nil {
			verr.Failures = append(verr.Failures, Failure{Header: fileHeader(path), Errors: []string{err.Error()}})
			continue
		}
		out = append(out, raws...)
	}
	if len(verr.Failures) > 0 {
		return nil, &verr
	}
	return out, nil
}

// ExpandPaths expands glob patterns (including **) into file paths. Plain
// paths are kept as they are so a missing file is reported when it is
// loaded. Duplicates are dropped and the first occurrence wins.
func ExpandPaths(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		clean := filepath.Clean(p)
		if seen[clean] {
			return
		}
		seen[clean] = true
		out = append(out, clean)
	}

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			add(pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding glob pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoMatches, pattern)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	return slices.ContainsFunc([]rune(pattern), func(r rune) bool {
		return r == '*' || r == '?' || r == '[' || r == '{'
	})
}
