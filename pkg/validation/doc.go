// Package validation checks JSON values against named JSON Schemas and
// reports every structural divergence as a path-qualified problem.
//
// Schemas are obtained by type name from a schema.Retriever and compiled with
// santhosh-tekuri/jsonschema, which resolves $ref and definitions and rejects
// broken references. The compiled tree is then walked alongside the value:
//
//   - a type mismatch yields one "type" problem and stops descending there
//   - each missing required property yields one "required" problem at /<name>
//   - each property rejected by additionalProperties yields one "additional" problem
//   - array elements are checked at /<index>
//   - anyOf/oneOf pass when any branch has no problems, otherwise one "union" problem
//
// The walk never stops at the first problem; everything found is returned
// together, in a deterministic order.
//
// Validate separates the two kinds of failure: problems describe the value,
// while a non-nil error describes the schema (unknown type, unreadable or
// uncompilable document) and is meant to be shown to the user as is.
package validation
