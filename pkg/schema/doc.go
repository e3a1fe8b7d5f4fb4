// Package schema resolves type names to JSON Schema documents.
//
// A Retriever is the only thing the structural validator knows about where
// schemas come from. Two retrievers are provided:
//
//   - FSLoader reads pre-generated documents named <dir>/<TypeName>.json.
//   - OpenAPILoader serves the component schemas of an OpenAPI 3 document,
//     so a provider's published API description can stand in for generated
//     schemas.
//
// Either can be wrapped in a Cache, which loads each name at most once for the
// lifetime of the process and lets concurrent callers share one load.
package schema
