package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/ncdc/pkg/config"
	"github.com/getmockd/ncdc/pkg/mock"
	"github.com/getmockd/ncdc/pkg/problem"
)

var (
	serveWatch       bool
	serveMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve <config>...",
	Short: "Serve contracts as a mock backend",
	Long: `Serve the responses declared in the given config files. A request is matched
by method and endpoint; the first contract declared for a route wins.

When a contract declares a request type, request bodies are validated and
rejected with 400 if they do not match. Configured response bodies are checked
against their response types before serving starts.`,
	Example: `  ncdc serve contracts.yml
  ncdc serve --port 5000 --schema-path ./schemas --watch 'contracts/**/*.yml'
  ncdc serve --openapi api.yaml --metrics-addr :9090 contracts.yml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()
		return runServe(ctx, cmd.ErrOrStderr(), args, nil)
	},
}

func init() {
	f := serveCmd.Flags()
	f.IntVarP(&settings.Port, "port", "p", settings.Port, "Port to serve on (env NCDC_PORT)")
	f.BoolVarP(&serveWatch, "watch", "w", false, "Reload contracts when config files change")
	f.StringVar(&serveMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	rootCmd.AddCommand(serveCmd)
}

// runServe serves until ctx is done. ready, when non-nil, receives the
// address of the mock server once it is listening.
func runServe(ctx context.Context, stderr io.Writer, patterns []string, ready func(net.Addr)) error {
	e := newEnv(newLogger(stderr))

	paths, contracts, err := loadContracts(ctx, e, patterns, config.ModeServe)
	if err != nil {
		return err
	}
	v, err := newValidator(ctx, e, contracts)
	if err != nil {
		return err
	}
	if err := checkResponseBodies(ctx, v, contracts); err != nil {
		return err
	}

	srv := mock.NewServer(mock.NewRouter(contracts), v, mock.WithLogger(e.log), mock.WithReporter(e.reporter))

	var metricsLn net.Listener
	if serveMetricsAddr != "" {
		metricsLn, err = net.Listen("tcp", serveMetricsAddr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", serveMetricsAddr, err)
		}
	}

	var watcher *config.Watcher
	if serveWatch {
		watcher, err = config.NewWatcher(paths, e.log)
		if err != nil {
			if metricsLn != nil {
				_ = metricsLn.Close()
			}
			return fmt.Errorf("watching config files: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, fmt.Sprintf(":%d", settings.Port), func(addr net.Addr) {
			e.log.Info("serving contracts", "addr", addr.String(), "contracts", len(contracts))
			if ready != nil {
				ready(addr)
			}
		})
	})
	if metricsLn != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", e.reporter.Handler())
		g.Go(func() error {
			return mock.Serve(gctx, metricsLn, mux, nil, e.log.With("component", "metrics"))
		})
	}
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx, func() {
				reload(gctx, e, srv, v, patterns)
			})
		})
	}

	return g.Wait()
}

// reload swaps in freshly loaded contracts. On any failure the contracts
// being served are kept.
func reload(ctx context.Context, e *env, srv *mock.Server, v typeValidator, patterns []string) {
	_, contracts, err := loadContracts(ctx, e, patterns, config.ModeServe)
	if err == nil && v == nil {
		err = requireNoTypes(contracts)
	}
	if err == nil {
		err = checkResponseBodies(ctx, v, contracts)
	}
	if err != nil {
		e.log.Error("reload failed, keeping previous contracts", "error", err)
		return
	}
	prev := srv.Swap(mock.NewRouter(contracts))
	e.log.Info("contracts reloaded", "previous", prev.Len(), "contracts", len(contracts))
}

// checkResponseBodies validates every configured response body that has a
// response type, so the mock never serves a body its own contract rejects.
func checkResponseBodies(ctx context.Context, v typeValidator, contracts []config.TestConfig) error {
	if v == nil {
		return nil
	}
	var failures []string
	for _, c := range contracts {
		if c.Response.Type == "" || c.Response.Body == nil {
			continue
		}
		problems, err := v.Validate(ctx, c.Response.Body, c.Response.Type)
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			failures = append(failures, fmt.Sprintf("Invalid config - %s (%s %s)\nresponse body does not match type %s\n%s",
				c.Name, c.Request.Method, c.Request.Endpoint, c.Response.Type, problem.Problems(problems).String()))
		}
	}
	if len(failures) > 0 {
		return errors.New(strings.Join(failures, "\n\n"))
	}
	return nil
}
