// Package logging builds the structured loggers used across ncdc.
//
// It wraps log/slog so every command configures level and output format the
// same way:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatText,
//	})
//	logger.Info("mock server listening", "addr", ":4000", "routes", 12)
//
// Components accept a *slog.Logger in their constructor. When none is given
// they use Nop.
//
// Contract problems are attached to log records with ProblemsAttr, which
// renders one "<problemType> <path> <message>" line per problem.
package logging
