package config

import (
	"fmt"
	"strings"
)

// Failure is everything wrong with one declaration or one file.
type Failure struct {
	Header string
	Errors []string
}

func (f Failure) String() string {
	return f.Header + "\n" + strings.Join(f.Errors, "\n")
}

// ValidationError aggregates every failure found while loading and mapping.
// Failures are rendered as blocks separated by a blank line.
type ValidationError struct {
	Failures []Failure
}

func (e *ValidationError) Error() string {
	blocks := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		blocks[i] = f.String()
	}
	return strings.Join(blocks, "\n\n")
}

func configHeader(raw RawConfig) string {
	source := raw.Source
	if source == "" {
		source = "config"
	}
	name := raw.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("Invalid config - %s[%d] (%s)", source, raw.Index, name)
}

func fileHeader(path string) string {
	return "Invalid config file - " + path
}
