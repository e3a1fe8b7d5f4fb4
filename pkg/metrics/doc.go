// Package metrics records how long ncdc operations take and how often they
// fail, and exposes the numbers in the Prometheus text format.
//
// # Operation Reports
//
// A Reporter hands out Operation handles. Each handle is finished exactly once
// with Success or Fail; the elapsed time is logged at debug level and observed
// in a histogram:
//
//	reporter := metrics.NewReporter(logger, prometheus.NewRegistry())
//	op := reporter.Report("load schema", "type", "Widget")
//	schema, err := load()
//	if err != nil {
//	    op.Fail()
//	    return err
//	}
//	op.Success()
//
// A nil *Reporter is valid and records nothing, so components can take one as
// an optional dependency.
//
// # Metrics
//
//   - ncdc_operation_duration_seconds: Histogram (labels: operation, result)
//   - ncdc_mock_requests_total: Counter for mock server requests (labels: method, status)
//   - ncdc_contracts_total: Counter for contract test results (labels: result)
//
// # Exposition
//
// Handler serves the registry the Reporter was built with:
//
//	http.Handle("/metrics", reporter.Handler())
package metrics
