package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getmockd/ncdc/pkg/logging"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFail    = "fail"
)

// Reporter records operation timings and counters.
type Reporter struct {
	log      *slog.Logger
	gatherer prometheus.Gatherer

	duration     *prometheus.HistogramVec
	mockRequests *prometheus.CounterVec
	contracts    *prometheus.CounterVec
}

// NewReporter creates a Reporter and registers its collectors with reg.
// A nil reg uses a fresh private registry.
func NewReporter(log *slog.Logger, reg *prometheus.Registry) *Reporter {
	if log == nil {
		log = logging.Nop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := &Reporter{
		log:      log,
		gatherer: reg,
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ncdc",
			Name:      "operation_duration_seconds",
			Help:      "Duration of ncdc operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "result"}),
		mockRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ncdc",
			Name:      "mock_requests_total",
			Help:      "Requests answered by the mock server.",
		}, []string{"method", "status"}),
		contracts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ncdc",
			Name:      "contracts_total",
			Help:      "Contract test results.",
		}, []string{"result"}),
	}
	reg.MustRegister(r.duration, r.mockRequests, r.contracts)
	return r
}

// Report starts timing an operation. attrs are added to the log line only;
// they never become metric labels.
func (r *Reporter) Report(operation string, attrs ...any) *Operation {
	return &Operation{r: r, name: operation, attrs: attrs, start: time.Now()}
}

// MockRequest counts one request answered by the mock server.
func (r *Reporter) MockRequest(method string, status int) {
	if r == nil {
		return
	}
	r.mockRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Contract counts one contract test result.
func (r *Reporter) Contract(passed bool) {
	if r == nil {
		return
	}
	result := ResultFail
	if passed {
		result = ResultSuccess
	}
	r.contracts.WithLabelValues(result).Inc()
}

// Handler serves the collected metrics.
func (r *Reporter) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// Operation is a timed unit of work. Only the first call to Success or Fail
// is recorded.
type Operation struct {
	r     *Reporter
	name  string
	attrs []any
	start time.Time
	once  sync.Once
}

// Success records the operation as succeeded.
func (o *Operation) Success() {
	o.finish(ResultSuccess)
}

// Fail records the operation as failed.
func (o *Operation) Fail() {
	o.finish(ResultFail)
}

func (o *Operation) finish(result string) {
	o.once.Do(func() {
		if o.r == nil {
			return
		}
		elapsed := time.Since(o.start)
		o.r.duration.WithLabelValues(o.name, result).Observe(elapsed.Seconds())

		args := append([]any{"operation", o.name, "result", result, "duration", elapsed}, o.attrs...)
		o.r.log.Debug("operation finished", args...)
	})
}
