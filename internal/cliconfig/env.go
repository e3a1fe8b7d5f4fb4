package cliconfig

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names
const (
	EnvSchemaPath = "NCDC_SCHEMA_PATH"
	EnvOpenAPI    = "NCDC_OPENAPI"
	EnvPort       = "NCDC_PORT"
	EnvTimeout    = "NCDC_TIMEOUT"
	EnvLogLevel   = "NCDC_LOG_LEVEL"
	EnvLogFormat  = "NCDC_LOG_FORMAT"
)

// LoadEnv applies environment variables to s. It only sets values that are
// present and parse; malformed numbers are ignored.
func LoadEnv(s *Settings) {
	if s.Sources == nil {
		s.Sources = make(map[string]Source)
	}

	// NCDC_SCHEMA_PATH
	if v := os.Getenv(EnvSchemaPath); v != "" {
		s.SchemaPath = v
		s.Sources["schemaPath"] = SourceEnv
	}

	// NCDC_OPENAPI
	if v := os.Getenv(EnvOpenAPI); v != "" {
		s.OpenAPI = v
		s.Sources["openapi"] = SourceEnv
	}

	// NCDC_PORT
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			s.Port = port
			s.Sources["port"] = SourceEnv
		}
	}

	// NCDC_TIMEOUT accepts a duration ("2s") or a number of milliseconds.
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, ok := parseTimeout(v); ok {
			s.Timeout = d
			s.Sources["timeout"] = SourceEnv
		}
	}

	// NCDC_LOG_LEVEL
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
		s.Sources["logLevel"] = SourceEnv
	}

	// NCDC_LOG_FORMAT
	if v := os.Getenv(EnvLogFormat); v != "" {
		s.LogFormat = v
		s.Sources["logFormat"] = SourceEnv
	}
}

func parseTimeout(v string) (time.Duration, bool) {
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, ms > 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
