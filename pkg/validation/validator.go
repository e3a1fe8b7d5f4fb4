package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/ncdc/internal/memo"
	"github.com/getmockd/ncdc/pkg/problem"
	"github.com/getmockd/ncdc/pkg/schema"
)

// Validator validates values against schemas looked up by type name.
// It is safe for concurrent use.
type Validator struct {
	schemas  schema.Retriever
	compiled memo.Table[*jsonschema.Schema]
}

// New creates a Validator that fetches schemas from r.
func New(r schema.Retriever) *Validator {
	return &Validator{schemas: r}
}

// Validate checks value against the schema for typeName.
//
// A nil error with no problems means the value is valid. A non-nil error means
// the schema itself could not be obtained or compiled; no problems are
// returned in that case.
func (v *Validator) Validate(ctx context.Context, value any, typeName string) ([]problem.Problem, error) {
	s, err := v.compile(ctx, typeName)
	if err != nil {
		return nil, err
	}
	return walk(s, normalize(value), ""), nil
}

func (v *Validator) compile(ctx context.Context, typeName string) (*jsonschema.Schema, error) {
	return v.compiled.Get(typeName, func() (*jsonschema.Schema, error) {
		def, err := v.schemas.Load(ctx, typeName)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(def)
		if err != nil {
			return nil, &schema.GenerationError{TypeName: typeName, Err: fmt.Errorf("failed to marshal schema: %w", err)}
		}

		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		url := typeName + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
			return nil, &schema.GenerationError{TypeName: typeName, Err: fmt.Errorf("failed to add schema resource: %w", err)}
		}
		compiled, err := compiler.Compile(url)
		if err != nil {
			return nil, &schema.GenerationError{TypeName: typeName, Err: err}
		}
		return compiled, nil
	})
}
