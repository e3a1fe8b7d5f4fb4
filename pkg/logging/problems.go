package logging

import (
	"log/slog"

	"github.com/getmockd/ncdc/pkg/problem"
)

// ProblemsAttr attaches contract problems to a log record, one
// "<problemType> <path> <message>" line per problem.
func ProblemsAttr(problems []problem.Problem) slog.Attr {
	return slog.String("problems", problem.Problems(problems).String())
}
