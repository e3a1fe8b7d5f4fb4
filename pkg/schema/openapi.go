package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPILoader serves the component schemas of an OpenAPI 3 document.
//
// The schema for a name is a small document whose root references
// #/components/schemas/<name> and which carries every component schema, so
// references between components keep resolving.
type OpenAPILoader struct {
	components map[string]any
}

// NewOpenAPILoader loads and validates the OpenAPI document at path.
func NewOpenAPILoader(ctx context.Context, path string) (*OpenAPILoader, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document %s: %w", path, err)
	}
	return newOpenAPILoader(doc)
}

func newOpenAPILoader(doc *openapi3.T) (*OpenAPILoader, error) {
	l := &OpenAPILoader{components: map[string]any{}}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return l, nil
	}

	data, err := json.Marshal(doc.Components.Schemas)
	if err != nil {
		return nil, fmt.Errorf("failed to encode component schemas: %w", err)
	}
	if err := json.Unmarshal(data, &l.components); err != nil {
		return nil, fmt.Errorf("failed to decode component schemas: %w", err)
	}
	for name, s := range l.components {
		l.components[name] = toJSONSchema(s)
	}
	return l, nil
}

// Names returns the component schema names in sorted order.
func (l *OpenAPILoader) Names() []string {
	names := make([]string, 0, len(l.components))
	for name := range l.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load returns the schema document for the component named typeName.
func (l *OpenAPILoader) Load(ctx context.Context, typeName string) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := l.components[typeName]; !ok {
		return nil, &NotFoundError{TypeName: typeName}
	}

	return Definition{
		"$ref": "#/components/schemas/" + typeName,
		"components": map[string]any{
			"schemas": l.components,
		},
	}, nil
}

// toJSONSchema rewrites the OpenAPI 3.0 dialect into JSON Schema:
// "nullable: true" becomes a type list that admits null, and the boolean
// exclusiveMinimum/exclusiveMaximum flags become the numeric bounds.
func toJSONSchema(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			node[k] = toJSONSchema(child)
		}
		if nullable, ok := node["nullable"].(bool); ok {
			delete(node, "nullable")
			if t, isString := node["type"].(string); nullable && isString {
				node["type"] = []any{t, "null"}
			}
		}
		exclusiveBound(node, "exclusiveMinimum", "minimum")
		exclusiveBound(node, "exclusiveMaximum", "maximum")
		return node
	case []any:
		for i, child := range node {
			node[i] = toJSONSchema(child)
		}
		return node
	default:
		return v
	}
}

// exclusiveBound turns "exclusive: true" next to "bound: n" into
// "exclusive: n". A false flag is dropped and leaves the inclusive bound.
func exclusiveBound(node map[string]any, exclusive, bound string) {
	flag, ok := node[exclusive].(bool)
	if !ok {
		return
	}
	delete(node, exclusive)
	if !flag {
		return
	}
	if n, ok := node[bound]; ok {
		node[exclusive] = n
		delete(node, bound)
	}
}
