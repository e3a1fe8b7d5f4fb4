package schema

import (
	"context"
	"errors"
	"fmt"
)

// Definition is a JSON Schema document as decoded from JSON.
// It is read-only once returned by a Retriever.
type Definition = map[string]any

// Retriever resolves a type name to its schema.
//
// Load returns a *NotFoundError when the name is unknown and a
// *GenerationError for every other failure.
type Retriever interface {
	Load(ctx context.Context, typeName string) (Definition, error)
}

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("schema not found")

// NotFoundError reports that no schema exists for a type name.
type NotFoundError struct {
	TypeName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find type: %s", e.TypeName)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// GenerationError reports that a schema exists or may exist for a type name
// but could not be produced.
type GenerationError struct {
	TypeName string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("could not create a schema for type: %s\n%v", e.TypeName, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
