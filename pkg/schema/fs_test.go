package schema

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSLoader_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Widget.json"),
		[]byte(`{"type":"object","required":["id"]}`), 0o644))

	def, err := NewFSLoader(dir).Load(context.Background(), "Widget")
	require.NoError(t, err)
	assert.Equal(t, "object", def["type"])
	assert.Equal(t, []any{"id"}, def["required"])
}

func TestFSLoader_NotFound(t *testing.T) {
	_, err := NewFSLoader(t.TempDir()).Load(context.Background(), "Missing")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Missing", nf.TypeName)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "could not find type: Missing")
}

func TestFSLoader_RejectsPathTraversal(t *testing.T) {
	_, err := NewFSLoader(t.TempDir()).Load(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSLoader_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken.json"), []byte(`{nope`), 0o644))

	_, err := NewFSLoader(dir).Load(context.Background(), "Broken")

	var ge *GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "Broken", ge.TypeName)
	assert.Contains(t, err.Error(), "could not create a schema for type: Broken\n")
}

func TestFSLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFSLoader(t.TempDir()).Load(ctx, "Widget")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "schemas")
	def := Definition{"type": "string"}

	require.NoError(t, WriteFile(dir, "Name", def))

	got, err := NewFSLoader(dir).Load(context.Background(), "Name")
	require.NoError(t, err)
	assert.Equal(t, def, got)
}

func TestWriteFile_InvalidName(t *testing.T) {
	assert.Error(t, WriteFile(t.TempDir(), "a/b", Definition{}))
}
