package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/getmockd/ncdc/pkg/cli/internal/output"
	"github.com/getmockd/ncdc/pkg/config"
	"github.com/getmockd/ncdc/pkg/metrics"
	"github.com/getmockd/ncdc/pkg/problem"
	"github.com/getmockd/ncdc/pkg/schema"
	"github.com/getmockd/ncdc/pkg/validation"
)

// ErrNoSchemaSource is returned when contracts declare types but neither a
// schema directory nor an OpenAPI document was given.
var ErrNoSchemaSource = errors.New("no schema source configured")

// env is what a command run needs besides its flags.
type env struct {
	log      *slog.Logger
	reporter *metrics.Reporter
	registry *prometheus.Registry
}

func newEnv(log *slog.Logger) *env {
	reg := prometheus.NewRegistry()
	return &env{
		log:      log,
		reporter: metrics.NewReporter(log, reg),
		registry: reg,
	}
}

// newRetriever builds the schema source from the current settings. It
// returns nil when no source is configured. An OpenAPI document wins over a
// schema directory.
func newRetriever(ctx context.Context, e *env) (schema.Retriever, error) {
	var r schema.Retriever
	switch {
	case settings.OpenAPI != "":
		if settings.SchemaPath != "" {
			output.Warn("both --openapi and --schema-path are set; using %s", settings.OpenAPI)
		}
		loader, err := schema.NewOpenAPILoader(ctx, settings.OpenAPI)
		if err != nil {
			return nil, err
		}
		e.log.Debug("loaded OpenAPI document", "path", settings.OpenAPI, "schemas", len(loader.Names()))
		r = loader
	case settings.SchemaPath != "":
		r = schema.NewFSLoader(settings.SchemaPath)
	default:
		return nil, nil
	}
	return schema.NewCache(r, e.reporter), nil
}

// typeValidator is satisfied by *validation.Validator.
type typeValidator interface {
	Validate(ctx context.Context, value any, typeName string) ([]problem.Problem, error)
}

// newValidator returns a validator over the configured schema source, or nil
// when there is none. Without a source it fails if contracts declare types,
// since they could not be checked.
func newValidator(ctx context.Context, e *env, contracts []config.TestConfig) (typeValidator, error) {
	r, err := newRetriever(ctx, e)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, requireNoTypes(contracts)
	}
	return validation.New(r), nil
}

func requireNoTypes(contracts []config.TestConfig) error {
	types := config.TypeNames(contracts)
	if len(types) == 0 {
		return nil
	}
	return fmt.Errorf("%w: contracts use types %s; set --schema-path or --openapi",
		ErrNoSchemaSource, strings.Join(types, ", "))
}

// loadContracts expands patterns and maps every contract in them.
func loadContracts(ctx context.Context, e *env, patterns []string, mode config.Mode) ([]string, []config.TestConfig, error) {
	paths, err := config.ExpandPaths(patterns)
	if err != nil {
		return nil, nil, err
	}
	mapper := config.NewMapper(config.WithReporter(e.reporter))
	contracts, err := mapper.LoadContracts(ctx, paths, mode)
	if err != nil {
		return nil, nil, err
	}
	e.log.Debug("loaded contracts", "files", len(paths), "contracts", len(contracts), "mode", mode.String())
	return paths, contracts, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
