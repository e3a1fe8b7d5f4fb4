package validation

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/ncdc/pkg/problem"
	"github.com/getmockd/ncdc/pkg/schema"
)

// mapRetriever serves schemas from JSON literals keyed by type name.
type mapRetriever struct {
	schemas map[string]string
	calls   atomic.Int32
}

func (r *mapRetriever) Load(_ context.Context, typeName string) (schema.Definition, error) {
	r.calls.Add(1)
	raw, ok := r.schemas[typeName]
	if !ok {
		return nil, &schema.NotFoundError{TypeName: typeName}
	}
	var def schema.Definition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		return nil, &schema.GenerationError{TypeName: typeName, Err: err}
	}
	return def, nil
}

func newValidator(schemas map[string]string) (*Validator, *mapRetriever) {
	r := &mapRetriever{schemas: schemas}
	return New(r), r
}

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

const widgetSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$ref": "#/definitions/Widget",
  "definitions": {
    "Widget": {
      "type": "object",
      "required": ["id", "name"],
      "additionalProperties": false,
      "properties": {
        "id": {"type": "integer"},
        "name": {"type": "string"},
        "tags": {"type": "array", "items": {"type": "string"}},
        "parts": {"type": "array", "items": {"$ref": "#/definitions/Part"}}
      }
    },
    "Part": {
      "type": "object",
      "required": ["sku"],
      "properties": {"sku": {"type": "string"}}
    }
  }
}`

func TestValidate_Valid(t *testing.T) {
	v, _ := newValidator(map[string]string{"Widget": widgetSchema})

	problems, err := v.Validate(context.Background(),
		decode(t, `{"id": 1, "name": "bolt", "tags": ["a"], "parts": [{"sku": "x"}]}`), "Widget")

	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestValidate_MissingRequired(t *testing.T) {
	v, _ := newValidator(map[string]string{
		"Thing": `{"type": "object", "required": ["id"]}`,
	})

	problems, err := v.Validate(context.Background(), map[string]any{}, "Thing")

	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, problem.TypeRequired, problems[0].Type)
	assert.Equal(t, "/id", problems[0].Path)
}

func TestValidate_AdditionalPropertiesFalse(t *testing.T) {
	v, _ := newValidator(map[string]string{
		"A": `{"type": "object", "properties": {"a": {}}, "additionalProperties": false}`,
	})

	problems, err := v.Validate(context.Background(), map[string]any{"a": 1, "b": 2}, "A")

	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, problem.TypeAdditional, problems[0].Type)
	assert.Equal(t, "/b", problems[0].Path)
	assert.Equal(t, 2.0, problems[0].Actual)
}

func TestValidate_TypeMismatch(t *testing.T) {
	v, _ := newValidator(map[string]string{"S": `{"type": "string"}`})

	problems, err := v.Validate(context.Background(), 12, "S")

	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, problem.Problem{
		Type:     problem.TypeType,
		Path:     "",
		Message:  "should be string but got number",
		Expected: "string",
		Actual:   "number",
	}, problems[0])
}

func TestValidate_CollectsEverything(t *testing.T) {
	v, _ := newValidator(map[string]string{"Widget": widgetSchema})

	problems, err := v.Validate(context.Background(),
		decode(t, `{"id": 1.5, "tags": ["ok", 3], "parts": [{"sku": "x"}, {}], "color": "red"}`), "Widget")

	require.NoError(t, err)
	paths := make([]string, len(problems))
	for i, p := range problems {
		paths[i] = string(p.Type) + " " + p.Path
	}
	assert.Equal(t, []string{
		"required /name",
		"additional /color",
		"type /id",
		"required /parts/1/sku",
		"type /tags/1",
	}, paths)
}

func TestValidate_Union(t *testing.T) {
	v, _ := newValidator(map[string]string{
		"U": `{"anyOf": [{"type": "string"}, {"type": "object", "required": ["kind"]}]}`,
	})

	problems, err := v.Validate(context.Background(), "fine", "U")
	require.NoError(t, err)
	assert.Empty(t, problems)

	problems, err = v.Validate(context.Background(), map[string]any{}, "U")
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, problem.TypeUnion, problems[0].Type)
	assert.Equal(t, "", problems[0].Path)
	assert.Equal(t, 2, problems[0].Expected)
}

func TestValidate_OneOfInsideArray(t *testing.T) {
	v, _ := newValidator(map[string]string{
		"L": `{"type": "array", "items": {"oneOf": [{"type": "integer"}, {"type": "null"}]}}`,
	})

	problems, err := v.Validate(context.Background(), []any{1, nil, "x"}, "L")

	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "/2", problems[0].Path)
	assert.Equal(t, problem.TypeUnion, problems[0].Type)
}

func TestValidate_Enum(t *testing.T) {
	v, _ := newValidator(map[string]string{
		"E": `{"type": "string", "enum": ["red", "green"]}`,
		"N": `{"enum": [1, 2]}`,
	})

	problems, err := v.Validate(context.Background(), "blue", "E")
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, problem.TypeEnum, problems[0].Type)
	assert.Equal(t, []any{"red", "green"}, problems[0].Expected)

	problems, err = v.Validate(context.Background(), 2, "N")
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestValidate_AdditionalPropertiesSchema(t *testing.T) {
	v, _ := newValidator(map[string]string{
		"M": `{"type": "object", "additionalProperties": {"type": "number"}}`,
	})

	problems, err := v.Validate(context.Background(), map[string]any{"a": 1, "b/c": "x"}, "M")

	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "/b~1c", problems[0].Path)
}

func TestValidate_NotFound(t *testing.T) {
	v, _ := newValidator(map[string]string{})

	problems, err := v.Validate(context.Background(), "x", "Nope")

	assert.Nil(t, problems)
	assert.ErrorIs(t, err, schema.ErrNotFound)
	assert.EqualError(t, err, "could not find type: Nope")
}

func TestValidate_UnresolvableRef(t *testing.T) {
	v, _ := newValidator(map[string]string{
		"Bad": `{"$ref": "#/definitions/Missing"}`,
	})

	problems, err := v.Validate(context.Background(), "x", "Bad")

	assert.Nil(t, problems)
	var ge *schema.GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "Bad", ge.TypeName)
}

func TestValidate_CompilesOncePerType(t *testing.T) {
	v, r := newValidator(map[string]string{"S": `{"type": "string"}`})

	for i := 0; i < 3; i++ {
		_, err := v.Validate(context.Background(), "x", "S")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestValidate_NormalizesGoValues(t *testing.T) {
	v, _ := newValidator(map[string]string{
		"P": `{"type": "object", "properties": {"n": {"type": "integer"}, "xs": {"type": "array"}}}`,
	})

	problems, err := v.Validate(context.Background(), map[string]any{"n": int64(4), "xs": []any{}}, "P")

	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestValidate_OpenAPIExclusiveBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`openapi: 3.0.3
info:
  title: Prices
  version: "1.0"
paths: {}
components:
  schemas:
    Price:
      type: object
      required: [amount]
      properties:
        amount:
          type: number
          minimum: 0
          exclusiveMinimum: true
    Other:
      type: string
`), 0o644))
	loader, err := schema.NewOpenAPILoader(context.Background(), path)
	require.NoError(t, err)
	v := New(loader)

	problems, err := v.Validate(context.Background(), decode(t, `{"amount": 5}`), "Price")
	require.NoError(t, err)
	assert.Empty(t, problems)

	problems, err = v.Validate(context.Background(), "ok", "Other")
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestValidate_DynamicRef(t *testing.T) {
	v, _ := newValidator(map[string]string{
		"Tree": `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$dynamicAnchor": "node",
  "type": "object",
  "properties": {
    "children": {"type": "array", "items": {"$dynamicRef": "#node"}}
  }
}`,
	})

	problems, err := v.Validate(context.Background(), decode(t, `{"children": [{"children": "x"}]}`), "Tree")

	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, problem.TypeType, problems[0].Type)
	assert.Equal(t, "/children/0/children", problems[0].Path)
}

func TestValidate_RecursiveRef(t *testing.T) {
	v, _ := newValidator(map[string]string{
		"List": `{
  "$schema": "https://json-schema.org/draft/2019-09/schema",
  "$recursiveAnchor": true,
  "type": "object",
  "properties": {
    "next": {"$recursiveRef": "#"}
  }
}`,
	})

	problems, err := v.Validate(context.Background(), decode(t, `{"next": {"next": 1}}`), "List")

	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, problem.TypeType, problems[0].Type)
	assert.Equal(t, "/next/next", problems[0].Path)
}
