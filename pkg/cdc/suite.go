package cdc

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/getmockd/ncdc/pkg/config"
	"github.com/getmockd/ncdc/pkg/problem"
)

// ContractTester checks one contract.
type ContractTester interface {
	Test(ctx context.Context, cfg config.TestConfig) ([]problem.Problem, error)
}

// Outcome is the result of testing one contract.
type Outcome struct {
	Config   config.TestConfig
	Problems []problem.Problem
	Err      error
	Duration time.Duration
}

// Passed reports whether the contract holds.
func (o Outcome) Passed() bool {
	return o.Err == nil && len(o.Problems) == 0
}

// Summary counts outcomes.
type Summary struct {
	Passed int
	Failed int
}

// Total is the number of contracts tested.
func (s Summary) Total() int {
	return s.Passed + s.Failed
}

// RunSuite tests configs with at most concurrency tests in flight. Outcomes
// are returned in the order of configs regardless of completion order.
func RunSuite(ctx context.Context, tester ContractTester, configs []config.TestConfig, concurrency int) ([]Outcome, Summary) {
	if concurrency < 1 {
		concurrency = 1
	}

	outcomes := make([]Outcome, len(configs))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, cfg := range configs {
		g.Go(func() error {
			start := time.Now()
			problems, err := tester.Test(ctx, cfg)
			outcomes[i] = Outcome{
				Config:   cfg,
				Problems: problems,
				Err:      err,
				Duration: time.Since(start),
			}
			return nil
		})
	}
	_ = g.Wait()

	var summary Summary
	for _, o := range outcomes {
		if o.Passed() {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	return outcomes, summary
}
