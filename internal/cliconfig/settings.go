package cliconfig

import (
	"os"
	"time"
)

// Source identifies where a setting came from.
type Source string

// Setting sources.
const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// Default values.
const (
	DefaultPort      = 4000
	DefaultTimeout   = 5 * time.Second
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Settings holds the values every command may need.
type Settings struct {
	SchemaPath string
	OpenAPI    string
	Port       int
	Timeout    time.Duration
	LogLevel   string
	LogFormat  string

	// Sources maps a setting name to where its value came from.
	Sources map[string]Source
}

// Defaults returns settings with default values.
func Defaults() *Settings {
	return &Settings{
		Port:      DefaultPort,
		Timeout:   DefaultTimeout,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Sources: map[string]Source{
			"port":      SourceDefault,
			"timeout":   SourceDefault,
			"logLevel":  SourceDefault,
			"logFormat": SourceDefault,
		},
	}
}

// Load returns the defaults overridden by the settings file in the current
// directory and then by the environment. A settings file that cannot be read
// is skipped and its error returned alongside the remaining layers.
func Load() (*Settings, error) {
	s := Defaults()
	var fileErr error
	if cwd, err := os.Getwd(); err == nil {
		if path := FindLocalFile(cwd); path != "" {
			fileErr = LoadFile(s, path)
		}
	}
	LoadEnv(s)
	return s, fileErr
}

// Source reports where the named setting came from. Unset settings report
// SourceDefault.
func (s *Settings) Source(name string) Source {
	if src, ok := s.Sources[name]; ok {
		return src
	}
	return SourceDefault
}

// MarkFlag records that a flag set the named setting.
func (s *Settings) MarkFlag(name string) {
	if s.Sources == nil {
		s.Sources = make(map[string]Source)
	}
	s.Sources[name] = SourceFlag
}
