package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/getmockd/ncdc/internal/cliconfig"
	"github.com/getmockd/ncdc/pkg/cli/internal/output"
	"github.com/getmockd/ncdc/pkg/logging"
)

// settings layers flags over the environment, the settings file and defaults.
// A broken settings file is reported once the command runs.
var settings, settingsErr = cliconfig.Load()

var (
	// Persistent flags available to all subcommands
	verbose    bool
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ncdc",
	Short: "ncdc tests and mocks HTTP services from consumer-driven contracts",
	Long: `ncdc reads contracts from YAML config files. Each contract declares a request
and the response a consumer expects for it. The same contracts can be replayed
against a live service (ncdc test) or served as a mock backend (ncdc serve).

Response and request types are checked against JSON Schemas loaded from a
schema directory or from an OpenAPI document.`,
	SilenceUsage:  true,
	SilenceErrors: true, // main prints the error
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if settingsErr != nil {
			output.Warn("ignoring settings file: %v", settingsErr)
		}
		for flag, setting := range flagSettings {
			if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
				settings.MarkFlag(setting)
			}
		}
	},
}

// flagSettings maps flag names to the setting they override.
var flagSettings = map[string]string{
	"schema-path": "schemaPath",
	"openapi":     "openapi",
	"port":        "port",
	"timeout":     "timeout",
	"log-level":   "logLevel",
	"log-format":  "logFormat",
}

// Execute runs the root command with args.
func Execute(args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&settings.SchemaPath, "schema-path", settings.SchemaPath, "Directory of <Type>.json schema files (env NCDC_SCHEMA_PATH)")
	pf.StringVar(&settings.OpenAPI, "openapi", settings.OpenAPI, "OpenAPI 3 document whose component schemas define the types (env NCDC_OPENAPI)")
	pf.StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "Log level: debug, info, warn, error (env NCDC_LOG_LEVEL)")
	pf.StringVar(&settings.LogFormat, "log-format", settings.LogFormat, "Log format: text, json (env NCDC_LOG_FORMAT)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level debug")
	pf.BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}

// newLogger builds the operational logger from the current settings.
func newLogger(w io.Writer) *slog.Logger {
	level := logging.ParseLevel(settings.LogLevel)
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: logging.ParseFormat(settings.LogFormat),
		Output: w,
	})
}
