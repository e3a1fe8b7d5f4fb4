package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "contracts.yml"), `
- name: get widget
  request:
    method: GET
    endpoints:
      - /widgets/1
      - /widgets/2
    headers:
      Accept: application/json
  response:
    code: 200
    type: Widget
    body:
      id: 1
- name: create widget
  serveOnly: true
  request:
    method: POST
    serveEndpoint: /widgets
    type: CreateWidget
    serveBodyPath: ./create.json
  response:
    code: 201
`)

	raws, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, "get widget", raws[0].Name)
	assert.Equal(t, path, raws[0].Source)
	assert.Equal(t, 0, raws[0].Index)
	assert.Equal(t, Endpoints{"/widgets/1", "/widgets/2"}, raws[0].Request.Endpoints)
	assert.Equal(t, map[string]string{"Accept": "application/json"}, raws[0].Request.Headers)
	assert.Equal(t, 200, raws[0].Response.Code)
	assert.Equal(t, "Widget", raws[0].Response.Type)
	assert.Equal(t, map[string]any{"id": 1}, raws[0].Response.Body)

	assert.Equal(t, 1, raws[1].Index)
	assert.True(t, raws[1].ServeOnly)
	assert.Equal(t, "/widgets", raws[1].Request.ServeEndpoint)
	assert.Equal(t, "./create.json", raws[1].Request.ServeBodyPath)
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "contracts.json"), `[
  {"name": "ping", "request": {"method": "GET", "endpoints": ["/ping"]}, "response": {"code": 204}}
]`)

	raws, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "ping", raws[0].Name)
	assert.Equal(t, 204, raws[0].Response.Code)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = LoadFile(writeFile(t, filepath.Join(dir, "empty.yml"), "  \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = LoadFile(writeFile(t, filepath.Join(dir, "broken.yml"), "- name: [unclosed\n"))
	assert.ErrorIs(t, err, ErrInvalidYAML)

	_, err = LoadFile(writeFile(t, filepath.Join(dir, "object.yml"), "name: not a list\n"))
	assert.ErrorIs(t, err, ErrInvalidYAML)
	assert.Contains(t, err.Error(), "expected a list of contracts")

	_, err = LoadFile(dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.yml"), "- name: a\n")
	b := writeFile(t, filepath.Join(dir, "b.yml"), "- name: b1\n- name: b2\n")

	raws, err := LoadFiles([]string{a, b})
	require.NoError(t, err)
	require.Len(t, raws, 3)
	assert.Equal(t, "b2", raws[2].Name)
	assert.Equal(t, b, raws[2].Source)
	assert.Equal(t, 1, raws[2].Index)

	missing := filepath.Join(dir, "missing.yml")
	empty := writeFile(t, filepath.Join(dir, "empty.yml"), "")
	_, err = LoadFiles([]string{missing, a, empty})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Failures, 2)
	assert.Contains(t, err.Error(), "Invalid config file - "+missing+"\nconfig file not found")
	assert.Contains(t, err.Error(), "\n\nInvalid config file - "+empty+"\nconfig file is empty")
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.yml"), "[]")
	nested := writeFile(t, filepath.Join(dir, "nested", "deep", "c.yml"), "[]")
	b := writeFile(t, filepath.Join(dir, "b.yml"), "[]")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	paths, err := ExpandPaths([]string{filepath.Join(dir, "**", "*.yml"), a})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, nested}, paths)

	paths, err = ExpandPaths([]string{filepath.Join(dir, "plain.yml")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "plain.yml")}, paths)

	_, err = ExpandPaths([]string{filepath.Join(dir, "*.json")})
	assert.ErrorIs(t, err, ErrNoMatches)
}

func TestEndpointsUnmarshal(t *testing.T) {
	raws, err := Parse([]byte("- request:\n    endpoints: /single\n- request:\n    endpoints: [/x, /y]\n"))
	require.NoError(t, err)
	assert.Equal(t, Endpoints{"/single"}, raws[0].Request.Endpoints)
	assert.Equal(t, Endpoints{"/x", "/y"}, raws[1].Request.Endpoints)
}
