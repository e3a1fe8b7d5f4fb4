package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/getmockd/ncdc/pkg/cdc"
	"github.com/getmockd/ncdc/pkg/cli/internal/output"
	"github.com/getmockd/ncdc/pkg/problem"
)

// outcomeOutput is the JSON form of one contract result.
type outcomeOutput struct {
	Name       string            `json:"name"`
	Method     string            `json:"method"`
	Endpoint   string            `json:"endpoint"`
	Passed     bool              `json:"passed"`
	Problems   []problem.Problem `json:"problems,omitempty"`
	Error      string            `json:"error,omitempty"`
	DurationMs int64             `json:"durationMs"`
}

type suiteOutput struct {
	Passed  int             `json:"passed"`
	Failed  int             `json:"failed"`
	Results []outcomeOutput `json:"results"`
}

// printOutcomes writes test results to w.
//
// When --json is active, ONLY the JSON encoding is written. Otherwise each
// contract gets a PASSED or FAILED line, failures are followed by their
// problems, and a summary line comes last.
func printOutcomes(w io.Writer, outcomes []cdc.Outcome, summary cdc.Summary) error {
	if jsonOutput {
		out := suiteOutput{Passed: summary.Passed, Failed: summary.Failed, Results: make([]outcomeOutput, len(outcomes))}
		for i, o := range outcomes {
			out.Results[i] = outcomeOutput{
				Name:       o.Config.Name,
				Method:     o.Config.Request.Method,
				Endpoint:   o.Config.Request.Endpoint,
				Passed:     o.Passed(),
				Problems:   o.Problems,
				DurationMs: o.Duration.Milliseconds(),
			}
			if o.Err != nil {
				out.Results[i].Error = o.Err.Error()
			}
		}
		return output.JSON(w, out)
	}

	for _, o := range outcomes {
		status := "PASSED"
		if !o.Passed() {
			status = "FAILED"
		}
		fmt.Fprintf(w, "%s: %s - %s %s\n", status, o.Config.Name, o.Config.Request.Method, o.Config.Request.Endpoint)
		switch {
		case o.Err != nil:
			fmt.Fprintln(w, indent(o.Err.Error()))
		case len(o.Problems) > 0:
			fmt.Fprintln(w, indent(problem.Problems(o.Problems).String()))
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", summary.Passed, summary.Failed, summary.Total())
	return nil
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
