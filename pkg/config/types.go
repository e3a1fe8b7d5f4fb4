package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Mode selects which variant of a declaration is materialized.
type Mode int

const (
	// ModeTest maps declarations for replay against a live service.
	ModeTest Mode = iota
	// ModeServe maps declarations for the mock server.
	ModeServe
)

func (m Mode) String() string {
	switch m {
	case ModeTest:
		return "test"
	case ModeServe:
		return "serve"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// RawConfig is a contract declaration as written in a config file.
type RawConfig struct {
	Name      string      `yaml:"name" json:"name"`
	ServeOnly bool        `yaml:"serveOnly" json:"serveOnly"`
	Request   RawRequest  `yaml:"request" json:"request"`
	Response  RawResponse `yaml:"response" json:"response"`

	// Source is the file the declaration was read from and Index its
	// position in that file. Body paths resolve relative to Source.
	Source string `yaml:"-" json:"-"`
	Index  int    `yaml:"-" json:"-"`
}

// RawRequest is the request half of a declaration.
type RawRequest struct {
	Method        string            `yaml:"method" json:"method"`
	Endpoints     Endpoints         `yaml:"endpoints" json:"endpoints"`
	ServeEndpoint string            `yaml:"serveEndpoint" json:"serveEndpoint"`
	Type          string            `yaml:"type" json:"type"`
	Body          any               `yaml:"body" json:"body"`
	BodyPath      string            `yaml:"bodyPath" json:"bodyPath"`
	ServeBody     any               `yaml:"serveBody" json:"serveBody"`
	ServeBodyPath string            `yaml:"serveBodyPath" json:"serveBodyPath"`
	Headers       map[string]string `yaml:"headers" json:"headers"`
}

// RawResponse is the response half of a declaration.
type RawResponse struct {
	Code          int               `yaml:"code" json:"code"`
	Type          string            `yaml:"type" json:"type"`
	Body          any               `yaml:"body" json:"body"`
	BodyPath      string            `yaml:"bodyPath" json:"bodyPath"`
	ServeBody     any               `yaml:"serveBody" json:"serveBody"`
	ServeBodyPath string            `yaml:"serveBodyPath" json:"serveBodyPath"`
	Headers       map[string]string `yaml:"headers" json:"headers"`
}

// Endpoints accepts either a single endpoint or a list of endpoints.
type Endpoints []string

// UnmarshalYAML implements custom YAML unmarshaling to handle both the scalar
// and the sequence form.
func (e *Endpoints) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*e = Endpoints{s}
		return nil
	}

	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*e = list
	return nil
}

// RequestConfig is one resolved request: exactly one endpoint and method.
type RequestConfig struct {
	Endpoint string            `json:"endpoint"`
	Method   string            `json:"method"`
	Type     string            `json:"type,omitempty"`
	Body     any               `json:"body,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
}

// ResponseConfig is the expected (or, when serving, the produced) response.
// A zero Code means no status code was configured.
type ResponseConfig struct {
	Code    int               `json:"code"`
	Type    string            `json:"type,omitempty"`
	Body    any               `json:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// TestConfig is a fully resolved contract.
type TestConfig struct {
	Name     string         `json:"name"`
	Request  RequestConfig  `json:"request"`
	Response ResponseConfig `json:"response"`
}

// TypeNames lists the request and response types referenced by configs in
// declaration order without duplicates.
func TypeNames(configs []TestConfig) []string {
	var names typeSet
	for _, c := range configs {
		names.add(c.Request.Type)
		names.add(c.Response.Type)
	}
	return names.list
}

// RawTypeNames is TypeNames for declarations that have not been mapped. It
// includes serve-only declarations.
func RawTypeNames(raws []RawConfig) []string {
	var names typeSet
	for _, r := range raws {
		names.add(r.Request.Type)
		names.add(r.Response.Type)
	}
	return names.list
}

type typeSet struct {
	seen map[string]bool
	list []string
}

func (s *typeSet) add(name string) {
	if name == "" || s.seen[name] {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	s.seen[name] = true
	s.list = append(s.list, name)
}
