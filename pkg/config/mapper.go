package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/getmockd/ncdc/pkg/metrics"
)

// defaultConcurrency bounds how many declarations are resolved at once.
const defaultConcurrency = 8

// Mapper turns raw declarations into TestConfigs.
type Mapper struct {
	readFile    func(string) ([]byte, error)
	reporter    *metrics.Reporter
	concurrency int
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithReporter records mapping durations.
func WithReporter(r *metrics.Reporter) MapperOption {
	return func(m *Mapper) {
		m.reporter = r
	}
}

// WithReadFile replaces the function used to read body files.
func WithReadFile(fn func(string) ([]byte, error)) MapperOption {
	return func(m *Mapper) {
		m.readFile = fn
	}
}

// WithConcurrency sets how many declarations are resolved at once.
func WithConcurrency(n int) MapperOption {
	return func(m *Mapper) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// NewMapper creates a Mapper that reads body files from disk.
func NewMapper(opts ...MapperOption) *Mapper {
	m := &Mapper{
		readFile:    os.ReadFile,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MapContracts validates every declaration, reads its body files, and expands
// it into one TestConfig per endpoint. The result keeps declaration order.
// When any declaration is invalid, nothing is returned but a *ValidationError
// describing all of them.
func (m *Mapper) MapContracts(ctx context.Context, raws []RawConfig, mode Mode) ([]TestConfig, error) {
	op := m.reporter.Report("map contracts", "mode", mode.String(), "declarations", len(raws))

	results := make([][]TestConfig, len(raws))
	failures := make([][]string, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, raw := range raws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], failures[i] = m.mapOne(raw, mode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		op.Fail()
		return nil, err
	}

	var verr ValidationError
	for i, errs := range failures {
		if len(errs) > 0 {
			verr.Failures = append(verr.Failures, Failure{Header: configHeader(raws[i]), Errors: errs})
		}
	}
	if len(verr.Failures) > 0 {
		op.Fail()
		return nil, &verr
	}

	var out []TestConfig
	for _, r := range results {
		out = append(out, r...)
	}
	op.Success()
	return out, nil
}

func (m *Mapper) mapOne(raw RawConfig, mode Mode) ([]TestConfig, []string) {
	if errs := validateRaw(raw, mode); len(errs) > 0 {
		return nil, errs
	}
	if mode == ModeTest && raw.ServeOnly {
		return nil, nil
	}

	baseDir := ""
	if raw.Source != "" {
		baseDir = filepath.Dir(raw.Source)
	}

	reqSource, resSource := bodySources(raw, mode)

	var errs []string
	reqBody, err := reqSource.resolve(baseDir, m.readFile)
	if err != nil {
		errs = append(errs, err.Error())
	}
	resBody, err := resSource.resolve(baseDir, m.readFile)
	if err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return nil, errs
	}

	endpoints := []string(raw.Request.Endpoints)
	if mode == ModeServe && raw.Request.ServeEndpoint != "" {
		endpoints = []string{raw.Request.ServeEndpoint}
	}

	method := strings.ToUpper(strings.TrimSpace(raw.Request.Method))
	configs := make([]TestConfig, 0, len(endpoints))
	for _, endpoint := range endpoints {
		configs = append(configs, TestConfig{
			Name: raw.Name,
			Request: RequestConfig{
				Endpoint: endpoint,
				Method:   method,
				Type:     raw.Request.Type,
				Body:     reqBody,
				Headers:  raw.Request.Headers,
			},
			Response: ResponseConfig{
				Code:    raw.Response.Code,
				Type:    raw.Response.Type,
				Body:    resBody,
				Headers: raw.Response.Headers,
			},
		})
	}
	return configs, nil
}

// bodySources picks the request and response body variants for mode.
func bodySources(raw RawConfig, mode Mode) (req, res bodySource) {
	req = bodySource{field: "request.body", inline: raw.Request.Body, path: raw.Request.BodyPath}
	res = bodySource{field: "response.body", inline: raw.Response.Body, path: raw.Response.BodyPath}
	if mode == ModeTest {
		return req, res
	}

	req = pick(
		bodySource{field: "request.serveBody", inline: raw.Request.ServeBody, path: raw.Request.ServeBodyPath},
		req,
	)
	res = pick(
		bodySource{field: "response.serveBody", inline: raw.Response.ServeBody, path: raw.Response.ServeBodyPath},
		res,
	)
	return req, res
}

// LoadContracts loads every file in paths and maps the declarations they
// contain. File and declaration failures are aggregated into one
// *ValidationError.
func (m *Mapper) LoadContracts(ctx context.Context, paths []string, mode Mode) ([]TestConfig, error) {
	var (
		verr ValidationError
		out  []TestConfig
	)
	for _, path := range paths {
		raws, err := LoadFile(path)
		if err != nil {
			verr.Failures = append(verr.Failures, Failure{Header: fileHeader(path), Errors: []string{err.Error()}})
			continue
		}
		configs, err := m.MapContracts(ctx, raws, mode)
		if err != nil {
			var mapErr *ValidationError
			if !errors.As(err, &mapErr) {
				return nil, err
			}
			verr.Failures = append(verr.Failures, mapErr.Failures...)
			continue
		}
		out = append(out, configs...)
	}
	if len(verr.Failures) > 0 {
		return nil, &verr
	}
	return out, nil
}
