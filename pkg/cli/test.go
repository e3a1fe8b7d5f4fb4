package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/getmockd/ncdc/pkg/cdc"
	"github.com/getmockd/ncdc/pkg/cli/internal/flags"
	"github.com/getmockd/ncdc/pkg/config"
)

var (
	testRateLimit   float64
	testConcurrency int
	testHeaders     flags.StringSlice
)

var testCmd = &cobra.Command{
	Use:   "test <base-url> <config>...",
	Short: "Test contracts against a live service",
	Long: `Replay every contract in the given config files against the service at
base-url and report each divergence from the expected response.

The command fails when any contract fails.`,
	Example: `  ncdc test http://localhost:8080 contracts.yml
  ncdc test --schema-path ./schemas --timeout 2s https://staging.example.com 'contracts/**/*.yml'
  ncdc test -H "Authorization: Bearer $TOKEN" --rate-limit 5 http://localhost:8080 contracts.yml`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()
		return runTest(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1:])
	},
}

func init() {
	f := testCmd.Flags()
	f.DurationVar(&settings.Timeout, "timeout", settings.Timeout, "Per-request timeout (env NCDC_TIMEOUT)")
	f.Float64Var(&testRateLimit, "rate-limit", 0, "Maximum requests per second (0 for no limit)")
	f.IntVar(&testConcurrency, "concurrency", 4, "Number of contracts tested at once")
	f.VarP(&testHeaders, "header", "H", `Header sent with every request, as "Name: value" (repeatable)`)
	rootCmd.AddCommand(testCmd)
}

func runTest(ctx context.Context, stdout, stderr io.Writer, baseURL string, patterns []string) error {
	e := newEnv(newLogger(stderr))

	_, contracts, err := loadContracts(ctx, e, patterns, config.ModeTest)
	if err != nil {
		return err
	}
	if len(contracts) == 0 {
		fmt.Fprintln(stdout, "No contracts to test")
		return nil
	}

	headers, err := flags.ParseHeaders(testHeaders)
	if err != nil {
		return err
	}
	contracts = withHeaders(contracts, headers)

	v, err := newValidator(ctx, e, contracts)
	if err != nil {
		return err
	}

	tester := cdc.NewTester(baseURL, v,
		cdc.WithTimeout(settings.Timeout),
		cdc.WithRateLimit(testRateLimit),
		cdc.WithLogger(e.log),
		cdc.WithReporter(e.reporter),
	)
	e.log.Info("testing contracts", "baseUrl", baseURL, "contracts", len(contracts))

	outcomes, summary := cdc.RunSuite(ctx, tester, contracts, testConcurrency)
	if err := printOutcomes(stdout, outcomes, summary); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d contracts failed", summary.Failed, summary.Total())
	}
	return nil
}

// withHeaders adds headers to every request. Header names are compared
// case-insensitively and the ones a contract sets itself take precedence.
func withHeaders(contracts []config.TestConfig, headers map[string]string) []config.TestConfig {
	if len(headers) == 0 {
		return contracts
	}
	out := make([]config.TestConfig, len(contracts))
	for i, c := range contracts {
		merged := make(map[string]string, len(headers)+len(c.Request.Headers))
		for k, v := range headers {
			merged[http.CanonicalHeaderKey(k)] = v
		}
		for k, v := range c.Request.Headers {
			merged[http.CanonicalHeaderKey(k)] = v
		}
		c.Request.Headers = merged
		out[i] = c
	}
	return out
}
