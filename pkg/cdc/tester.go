package cdc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/time/rate"

	"github.com/getmockd/ncdc/pkg/config"
	"github.com/getmockd/ncdc/pkg/httputil"
	"github.com/getmockd/ncdc/pkg/logging"
	"github.com/getmockd/ncdc/pkg/metrics"
	"github.com/getmockd/ncdc/pkg/problem"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// TypeValidator checks a value against a named type.
type TypeValidator interface {
	Validate(ctx context.Context, value any, typeName string) ([]problem.Problem, error)
}

// ErrNoValidator is returned when a contract names a type but the Tester has
// no way to load schemas.
var ErrNoValidator = errors.New("no schema source configured")

// Tester checks contracts against a running service.
type Tester struct {
	baseURL   string
	client    *http.Client
	validator TypeValidator
	limiter   *rate.Limiter
	log       *slog.Logger
	reporter  *metrics.Reporter
}

// Option configures a Tester.
type Option func(*Tester)

// WithHTTPClient replaces the HTTP client. Its Timeout is left as is.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Tester) {
		if c != nil {
			t.client = c
		}
	}
}

// WithTimeout sets how long a request may take before it counts as having
// no response.
func WithTimeout(d time.Duration) Option {
	return func(t *Tester) {
		if d > 0 {
			t.client.Timeout = d
		}
	}
}

// WithRateLimit paces requests to at most perSecond requests per second.
func WithRateLimit(perSecond float64) Option {
	return func(t *Tester) {
		if perSecond > 0 {
			t.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(t *Tester) {
		if log != nil {
			t.log = log
		}
	}
}

// WithReporter records test durations and results.
func WithReporter(r *metrics.Reporter) Option {
	return func(t *Tester) {
		t.reporter = r
	}
}

// NewTester creates a Tester for the service at baseURL. v may be nil when no
// contract declares a type.
func NewTester(baseURL string, v TypeValidator, opts ...Option) *Tester {
	t := &Tester{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: DefaultTimeout},
		validator: v,
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Test sends the contract's request and compares the response with the
// contract's expectations. See the package documentation for the meaning of
// the two results.
func (t *Tester) Test(ctx context.Context, cfg config.TestConfig) ([]problem.Problem, error) {
	op := t.reporter.Report("test contract", "name", cfg.Name, "endpoint", cfg.Request.Endpoint)

	problems, err := t.test(ctx, cfg)
	passed := err == nil && len(problems) == 0
	if passed {
		op.Success()
	} else {
		op.Fail()
	}
	t.reporter.Contract(passed)

	log := t.log.With("name", cfg.Name, "method", cfg.Request.Method, "endpoint", cfg.Request.Endpoint)
	switch {
	case err != nil:
		log.Debug("contract could not be checked", "error", err)
	case len(problems) > 0:
		log.Debug("contract failed", logging.ProblemsAttr(problems))
	default:
		log.Debug("contract passed")
	}
	return problems, err
}

func (t *Tester) test(ctx context.Context, cfg config.TestConfig) ([]problem.Problem, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := t.newRequest(ctx, cfg.Request)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &NoResponseError{Endpoint: cfg.Request.Endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := httputil.ReadBody(resp.Body)
	if err != nil {
		return nil, &NoResponseError{Endpoint: cfg.Request.Endpoint, Err: err}
	}
	body := httputil.DecodeBody(data, resp.Header.Get("Content-Type"))

	expected := cfg.Response
	if !isSuccess(resp.StatusCode) && expected.Code != resp.StatusCode {
		return nil, &StatusError{Expected: expected.Code, Actual: resp.StatusCode}
	}

	var problems []problem.Problem

	if expected.Code != 0 && expected.Code != resp.StatusCode {
		problems = append(problems, problem.New(problem.TypeStatus, "", expected.Code, resp.StatusCode))
	}

	if expected.Body != nil && !cmp.Equal(expected.Body, body) {
		problems = append(problems, bodyProblem(expected.Body, body))
	}

	problems = append(problems, headerProblems(expected.Headers, resp.Header)...)

	if expected.Type != "" {
		if t.validator == nil {
			return nil, fmt.Errorf("%w for type: %s", ErrNoValidator, expected.Type)
		}
		typeProblems, err := t.validator.Validate(ctx, body, expected.Type)
		if err != nil {
			if len(problems) == 0 {
				return nil, err
			}
			problems = append(problems, problem.New(problem.TypeType, "", expected.Type, nil).WithMessage(err.Error()))
		}
		problems = append(problems, typeProblems...)
	}

	return problems, nil
}

func (t *Tester) newRequest(ctx context.Context, rc config.RequestConfig) (*http.Request, error) {
	target := rc.Endpoint
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = t.baseURL + target
	}

	var (
		body        io.Reader
		contentType string
	)
	if rc.Body != nil && carriesBody(rc.Method) {
		switch b := rc.Body.(type) {
		case string:
			body = strings.NewReader(b)
			contentType = "text/plain; charset=utf-8"
		default:
			data, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("encoding request body: %w", err)
			}
			body = bytes.NewReader(data)
			contentType = "application/json"
		}
	}

	req, err := http.NewRequestWithContext(ctx, rc.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rc.Endpoint, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	for _, k := range slices.Sorted(maps.Keys(rc.Headers)) {
		req.Header.Set(k, rc.Headers[k])
	}
	return req, nil
}

func bodyProblem(expected, actual any) problem.Problem {
	p := problem.New(problem.TypeBody, "", expected, actual)
	if _, isString := expected.(string); isString {
		return p
	}
	return p.WithMessage("body does not match (-expected +actual):\n" + cmp.Diff(expected, actual))
}

func headerProblems(expected map[string]string, actual http.Header) []problem.Problem {
	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	slices.Sort(names)

	var problems []problem.Problem
	for _, name := range names {
		want := expected[name]
		path := problem.Pointer("", http.CanonicalHeaderKey(name))
		values := actual.Values(name)
		switch {
		case len(values) == 0:
			problems = append(problems, problem.New(problem.TypeHeaders, path, want, nil))
		case !headerMatches(want, values[0]):
			problems = append(problems, problem.New(problem.TypeHeaders, path, want, values[0]))
		}
	}
	return problems
}

// headerMatches compares header values, ignoring media type parameters when
// the expected value has none so "application/json" matches
// "application/json; charset=utf-8".
func headerMatches(want, got string) bool {
	if want == got {
		return true
	}
	if strings.Contains(want, ";") {
		return false
	}
	mediaType, _, _ := strings.Cut(got, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), want)
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func carriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
