// Package mock serves contracts as a mock backend.
//
// A Router is an immutable lookup table built from resolved contracts. The
// first contract declared for a method and endpoint wins, so later duplicates
// never shadow it. A Server hosts a Router over HTTP and can swap in a new
// one atomically when the contracts change.
package mock

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/getmockd/ncdc/pkg/config"
)

// ErrNotConfigured is returned when no contract matches a request.
var ErrNotConfigured = errors.New("no contract configured")

type routeKey struct {
	method string
	path   string
}

type route struct {
	query    url.Values
	contract config.TestConfig
}

// Router finds the contract for a request. It is read-only after NewRouter
// and safe for concurrent use.
type Router struct {
	routes    map[routeKey][]route
	contracts []config.TestConfig
}

// NewRouter builds a router from contracts in declaration order.
func NewRouter(contracts []config.TestConfig) *Router {
	r := &Router{
		routes:    make(map[routeKey][]route),
		contracts: contracts,
	}
	for _, c := range contracts {
		path, query := splitEndpoint(c.Request.Endpoint)
		key := routeKey{method: strings.ToUpper(c.Request.Method), path: path}
		r.routes[key] = append(r.routes[key], route{query: query, contract: c})
	}
	return r
}

// Lookup returns the first contract declared for method and endpoint. Paths
// are compared percent-decoded. An endpoint may carry a query string; a
// contract whose endpoint has query parameters only matches requests that
// include them.
func (r *Router) Lookup(method, endpoint string) (config.TestConfig, error) {
	path, query := splitEndpoint(endpoint)
	return r.Match(method, path, query)
}

// Match is Lookup for a path and query that are already split and decoded,
// as they are on an incoming request.
func (r *Router) Match(method, path string, query url.Values) (config.TestConfig, error) {
	if path == "" {
		path = "/"
	}
	for _, rt := range r.routes[routeKey{method: strings.ToUpper(method), path: path}] {
		if queryMatches(rt.query, query) {
			return rt.contract, nil
		}
	}
	return config.TestConfig{}, ErrNotConfigured
}

// Respond returns the status and body configured for method and endpoint.
// A contract without a status code responds with 200.
func (r *Router) Respond(method, endpoint string) (int, any, error) {
	c, err := r.Lookup(method, endpoint)
	if err != nil {
		return 0, nil, err
	}
	return statusOf(c), c.Response.Body, nil
}

// Contracts returns the contracts the router was built from.
func (r *Router) Contracts() []config.TestConfig {
	return r.contracts
}

// Len is the number of contracts in the router.
func (r *Router) Len() int {
	return len(r.contracts)
}

func statusOf(c config.TestConfig) int {
	if c.Response.Code == 0 {
		return http.StatusOK
	}
	return c.Response.Code
}

func splitEndpoint(endpoint string) (string, url.Values) {
	path, rawQuery, _ := strings.Cut(endpoint, "?")
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return path, url.Values{}
	}
	return path, query
}

func queryMatches(want, got url.Values) bool {
	for k, values := range want {
		for _, v := range values {
			if !slices.Contains(got[k], v) {
				return false
			}
		}
	}
	return true
}
