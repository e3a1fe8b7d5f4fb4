package cliconfig

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LocalFileNames are the names searched for a project settings file in the
// current directory, in order.
var LocalFileNames = []string{".ncdcrc.yaml", ".ncdcrc.yml"}

// fileSettings is the YAML form of a settings file. Timeout takes the same
// values as NCDC_TIMEOUT.
type fileSettings struct {
	SchemaPath string `yaml:"schemaPath"`
	OpenAPI    string `yaml:"openapi"`
	Port       int    `yaml:"port"`
	Timeout    string `yaml:"timeout"`
	LogLevel   string `yaml:"logLevel"`
	LogFormat  string `yaml:"logFormat"`
}

// FileError is a settings file that could not be parsed.
type FileError struct {
	Path    string
	Line    int
	Message string
}

func (e *FileError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

// FindLocalFile returns the first settings file in dir, or "" if there is
// none.
func FindLocalFile(dir string) string {
	for _, name := range LocalFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadFile applies the settings file at path to s. Relative schemaPath and
// openapi values resolve against the file's directory.
func LoadFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return &FileError{Path: path, Message: err.Error()}
	}
	if node.Kind == 0 {
		return nil
	}
	if len(node.Content) > 0 && node.Content[0].Kind != yaml.MappingNode {
		return &FileError{Path: path, Line: node.Content[0].Line, Message: "expected a mapping of settings"}
	}
	var f fileSettings
	if err := node.Decode(&f); err != nil {
		return &FileError{Path: path, Message: err.Error()}
	}

	if s.Sources == nil {
		s.Sources = make(map[string]Source)
	}
	base := filepath.Dir(path)
	if f.SchemaPath != "" {
		s.SchemaPath = relativeTo(base, f.SchemaPath)
		s.Sources["schemaPath"] = SourceFile
	}
	if f.OpenAPI != "" {
		s.OpenAPI = relativeTo(base, f.OpenAPI)
		s.Sources["openapi"] = SourceFile
	}
	if f.Port != 0 {
		s.Port = f.Port
		s.Sources["port"] = SourceFile
	}
	if f.Timeout != "" {
		d, ok := parseTimeout(f.Timeout)
		if !ok {
			return &FileError{Path: path, Message: "invalid timeout " + strconv.Quote(f.Timeout)}
		}
		s.Timeout = d
		s.Sources["timeout"] = SourceFile
	}
	if f.LogLevel != "" {
		s.LogLevel = f.LogLevel
		s.Sources["logLevel"] = SourceFile
	}
	if f.LogFormat != "" {
		s.LogFormat = f.LogFormat
		s.Sources["logFormat"] = SourceFile
	}
	return nil
}

func relativeTo(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
