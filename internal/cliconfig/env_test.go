package cliconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{EnvSchemaPath, EnvOpenAPI, EnvPort, EnvTimeout, EnvLogLevel, EnvLogFormat} {
		t.Setenv(k, "")
	}

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, s.Port)
	assert.Equal(t, DefaultTimeout, s.Timeout)
	assert.Equal(t, "info", s.LogLevel)
	assert.Empty(t, s.SchemaPath)
	assert.Equal(t, SourceDefault, s.Source("port"))
	assert.Equal(t, SourceDefault, s.Source("schemaPath"))
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvSchemaPath, "./schemas")
	t.Setenv(EnvOpenAPI, "api.yaml")
	t.Setenv(EnvPort, "5000")
	t.Setenv(EnvTimeout, "250")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./schemas", s.SchemaPath)
	assert.Equal(t, "api.yaml", s.OpenAPI)
	assert.Equal(t, 5000, s.Port)
	assert.Equal(t, 250*time.Millisecond, s.Timeout)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, SourceEnv, s.Source("port"))
	assert.Equal(t, SourceEnv, s.Source("openapi"))
}

func TestLoadEnv_IgnoresMalformedValues(t *testing.T) {
	t.Setenv(EnvPort, "not-a-port")
	t.Setenv(EnvTimeout, "-3s")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, s.Port)
	assert.Equal(t, DefaultTimeout, s.Timeout)
	assert.Equal(t, SourceDefault, s.Source("timeout"))
}

func TestParseTimeout(t *testing.T) {
	d, ok := parseTimeout("2s")
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, d)

	_, ok = parseTimeout("0")
	assert.False(t, ok)
}

func TestMarkFlag(t *testing.T) {
	s := &Settings{}
	s.MarkFlag("port")
	assert.Equal(t, SourceFlag, s.Source("port"))
}
