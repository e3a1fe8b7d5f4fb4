package schema

import (
	"context"

	"github.com/getmockd/ncdc/internal/memo"
	"github.com/getmockd/ncdc/pkg/metrics"
)

// Cache wraps a Retriever so each type name is loaded at most once.
//
// Concurrent first-time callers for a name share one underlying Load and all
// observe its result. Results, including NotFoundError and GenerationError,
// are kept for the lifetime of the Cache; schemas are treated as immutable for
// the run.
type Cache struct {
	retriever Retriever
	reporter  *metrics.Reporter
	table     memo.Table[Definition]
}

// NewCache wraps r. reporter may be nil.
func NewCache(r Retriever, reporter *metrics.Reporter) *Cache {
	return &Cache{retriever: r, reporter: reporter}
}

// Load returns the schema for typeName, loading it on first use.
func (c *Cache) Load(ctx context.Context, typeName string) (Definition, error) {
	return c.table.Get(typeName, func() (Definition, error) {
		op := c.reporter.Report("load schema", "type", typeName)
		def, err := c.retriever.Load(ctx, typeName)
		if err != nil {
			op.Fail()
			return nil, err
		}
		op.Success()
		return def, nil
	})
}
