package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSlice(t *testing.T) {
	var s StringSlice
	require.NoError(t, s.Set("a"))
	require.NoError(t, s.Set("b"))
	assert.Equal(t, "a,b", s.String())
	assert.Equal(t, "stringSlice", s.Type())
}

func TestParseHeaders(t *testing.T) {
	headers, err := ParseHeaders([]string{"Authorization: Bearer abc", "X-Empty:"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Authorization": "Bearer abc", "X-Empty": ""}, headers)

	headers, err = ParseHeaders(nil)
	require.NoError(t, err)
	assert.Nil(t, headers)

	_, err = ParseHeaders([]string{"no-colon"})
	assert.ErrorContains(t, err, `invalid header "no-colon"`)
}

func TestParseHeaders_CanonicalNames(t *testing.T) {
	headers, err := ParseHeaders([]string{"authorization: first", "x-request-id: 1", "AUTHORIZATION: second"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Authorization": "second", "X-Request-Id": "1"}, headers)
}
