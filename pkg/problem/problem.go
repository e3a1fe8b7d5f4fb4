// Package problem describes a single divergence between a contract and the
// value that was observed for it.
//
// Problems are plain values. The contract tester and the structural validator
// both build them through New so that a status mismatch found on the wire and
// a missing field found in a schema walk read the same way in reports.
package problem

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type identifies what kind of expectation was violated.
type Type string

// Problem types.
const (
	TypeStatus     Type = "status"
	TypeBody       Type = "body"
	TypeHeaders    Type = "headers"
	TypeType       Type = "type"
	TypeRequired   Type = "required"
	TypeAdditional Type = "additional"
	TypeUnion      Type = "union"
	TypeEnum       Type = "enum"
	TypeNot        Type = "not"
)

// Problem is one actionable divergence. Path is a JSON pointer into the
// inspected value ("" addresses the value itself).
type Problem struct {
	Type     Type   `json:"problemType"`
	Path     string `json:"path"`
	Message  string `json:"message"`
	Expected any    `json:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty"`
}

// String renders the problem as "<type> <path> <message>".
func (p Problem) String() string {
	path := p.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s %s %s", p.Type, path, p.Message)
}

// Problems is an ordered list of problems.
type Problems []Problem

// String renders one problem per line.
func (ps Problems) String() string {
	lines := make([]string, len(ps))
	for i, p := range ps {
		lines[i] = p.String()
	}
	return strings.Join(lines, "\n")
}

// New maps a mismatch of the given type to a Problem with a standard message.
func New(t Type, path string, expected, actual any) Problem {
	return Problem{
		Type:     t,
		Path:     path,
		Message:  message(t, expected, actual),
		Expected: expected,
		Actual:   actual,
	}
}

// WithMessage returns a copy of p with its message replaced.
func (p Problem) WithMessage(msg string) Problem {
	p.Message = msg
	return p
}

func message(t Type, expected, actual any) string {
	switch t {
	case TypeStatus:
		return fmt.Sprintf("expected status code %v but got %v", expected, actual)
	case TypeBody:
		return fmt.Sprintf("expected body %s but got %s", render(expected), render(actual))
	case TypeHeaders:
		if actual == nil {
			return fmt.Sprintf("expected header to be %s but it was missing", render(expected))
		}
		return fmt.Sprintf("expected header to be %s but got %s", render(expected), render(actual))
	case TypeType:
		return fmt.Sprintf("should be %v but got %v", expected, actual)
	case TypeRequired:
		return "is required but was missing"
	case TypeAdditional:
		return "is not an allowed property"
	case TypeUnion:
		return fmt.Sprintf("does not match any of the %v allowed shapes", expected)
	case TypeEnum:
		return fmt.Sprintf("should be one of %s but got %s", render(expected), render(actual))
	case TypeNot:
		return "matches a shape that is not allowed"
	default:
		return fmt.Sprintf("expected %s but got %s", render(expected), render(actual))
	}
}

// render prints strings quoted and everything else as compact JSON.
func render(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// Pointer appends a reference token to a JSON pointer, escaping "~" and "/".
func Pointer(base, token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return base + "/" + token
}
