package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes JSON with correct content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusOK, map[string]string{"foo": "bar"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var result map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "bar", result["foo"])
	})

	t.Run("handles nil data", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusNoContent, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteBody(t *testing.T) {
	t.Parallel()

	t.Run("strings are text", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteBody(rec, http.StatusOK, nil, "first")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "first", rec.Body.String())
	})

	t.Run("values are JSON", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteBody(rec, http.StatusCreated, nil, map[string]any{"id": 1.0})

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"id":1}`, rec.Body.String())
	})

	t.Run("configured headers win", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteBody(rec, http.StatusOK, map[string]string{"Content-Type": "application/xml", "X-Trace": "abc"}, "<a/>")

		assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
		assert.Equal(t, "abc", rec.Header().Get("X-Trace"))
	})

	t.Run("nil body", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteBody(rec, http.StatusAccepted, nil, nil)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteNotFound(rec, "not_configured", "no contract for GET /z")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var result map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "not_configured", result["error"])
	assert.Equal(t, "no contract for GET /z", result["message"])

	rec = httptest.NewRecorder()
	WriteErrorWithDetails(rec, http.StatusBadRequest, "invalid_request", "bad body", []string{"x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid_request","message":"bad body","details":["x"]}`, rec.Body.String())
}

func TestDecodeBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		data        string
		contentType string
		want        any
	}{
		{"empty", "  ", "application/json", nil},
		{"json object", `{"a":1}`, "application/json; charset=utf-8", map[string]any{"a": 1.0}},
		{"vendor json", `[1]`, "application/problem+json", []any{1.0}},
		{"no content type", `"ok"`, "", "ok"},
		{"invalid json is text", "nope", "application/json", "nope"},
		{"text stays text", "123", "text/plain", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DecodeBody([]byte(tt.data), tt.contentType))
		})
	}
}

func TestReadBody(t *testing.T) {
	t.Parallel()

	data, err := ReadBody(strings.NewReader(strings.Repeat("a", MaxBodySize+10)))
	require.NoError(t, err)
	assert.Len(t, data, MaxBodySize)
}
