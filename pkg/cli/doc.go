// Package cli provides the command-line interface for ncdc.
//
// Commands:
//   - generate: write the JSON Schemas of every type referenced by config files
//   - serve: serve config files as a mock backend
//   - test: replay config files against a live service
//   - version: show ncdc version
//
// Schemas are read from a directory of <Type>.json files (--schema-path) or
// from the component schemas of an OpenAPI 3 document (--openapi). Settings
// fall back to NCDC_* environment variables, then to a .ncdcrc.yaml file in
// the working directory.
//
// Usage:
//
//	ncdc generate --openapi api.yaml --output ./schemas contracts.yml
//	ncdc serve --schema-path ./schemas --port 4000 --watch contracts/*.yml
//	ncdc test --schema-path ./schemas http://localhost:8080 contracts.yml
package cli
