package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/ncdc/pkg/cli/internal/output"
	"github.com/getmockd/ncdc/pkg/config"
	"github.com/getmockd/ncdc/pkg/schema"
)

// DefaultSchemaDir is where generate writes schemas when neither --output
// nor --schema-path is given.
const DefaultSchemaDir = "json-schema"

var (
	generateOutput string
	generateForce  bool
)

// generateResult is the outcome for one type.
type generateResult struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

var generateCmd = &cobra.Command{
	Use:   "generate <config>...",
	Short: "Write the JSON Schema of every type used by config files",
	Long: `Collect the request and response types referenced by the given config files
and write one <Type>.json schema per type, taken from the component schemas of
the OpenAPI document given with --openapi. The output directory can then be
used with --schema-path.

Existing schema files are kept unless --force is given.`,
	Example: `  ncdc generate --openapi api.yaml contracts.yml
  ncdc generate --openapi api.yaml --output ./schemas --force 'contracts/**/*.yml'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateOutput, "output", "o", "", "Directory to write schemas to (defaults to --schema-path, then "+DefaultSchemaDir+")")
	f.BoolVarP(&generateForce, "force", "f", false, "Overwrite existing schema files")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context, stdout, stderr io.Writer, patterns []string) error {
	e := newEnv(newLogger(stderr))

	if settings.OpenAPI == "" {
		return fmt.Errorf("%w: generate needs --openapi", ErrNoSchemaSource)
	}

	paths, err := config.ExpandPaths(patterns)
	if err != nil {
		return err
	}
	raws, err := config.LoadFiles(paths)
	if err != nil {
		return err
	}
	types := config.RawTypeNames(raws)
	if len(types) == 0 {
		fmt.Fprintln(stdout, "No types found in the given config files")
		return nil
	}

	loader, err := schema.NewOpenAPILoader(ctx, settings.OpenAPI)
	if err != nil {
		return err
	}

	dir := generateOutput
	if dir == "" {
		dir = settings.SchemaPath
	}
	if dir == "" {
		dir = DefaultSchemaDir
	}

	results := make([]generateResult, 0, len(types))
	failed := 0
	for _, name := range types {
		r := generateOne(ctx, e, loader, dir, name)
		if r.Status == "failed" {
			failed++
		}
		results = append(results, r)
	}

	if jsonOutput {
		if err := output.JSON(stdout, results); err != nil {
			return err
		}
	} else {
		tw := output.Table(stdout)
		fmt.Fprintln(tw, "TYPE\tSTATUS\tDETAIL")
		for _, r := range results {
			detail := r.Path
			if r.Error != "" {
				detail = r.Error
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Type, r.Status, detail)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d schemas could not be generated", failed, len(types))
	}
	return nil
}

func generateOne(ctx context.Context, e *env, loader schema.Retriever, dir, name string) generateResult {
	path := schema.FilePath(dir, name)
	if !generateForce {
		if _, err := os.Stat(path); err == nil {
			return generateResult{Type: name, Status: "skipped", Path: path}
		} else if !errors.Is(err, os.ErrNotExist) {
			return generateResult{Type: name, Status: "failed", Error: err.Error()}
		}
	}

	op := e.reporter.Report("generate schema", "type", name)
	def, err := loader.Load(ctx, name)
	if err == nil {
		err = schema.WriteFile(dir, name, def)
	}
	if err != nil {
		op.Fail()
		return generateResult{Type: name, Status: "failed", Error: err.Error()}
	}
	op.Success()
	return generateResult{Type: name, Status: "written", Path: path}
}
