package config

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Methods lists the request methods a declaration may use.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// validateRaw returns one line per problem with the declaration. It does not
// touch the filesystem.
func validateRaw(raw RawConfig, mode Mode) []string {
	var errs []string

	if strings.TrimSpace(raw.Name) == "" {
		errs = append(errs, "name is required")
	}

	method := strings.ToUpper(strings.TrimSpace(raw.Request.Method))
	switch {
	case method == "":
		errs = append(errs, "request.method is required")
	case !slices.Contains(Methods, method):
		errs = append(errs, fmt.Sprintf("request.method must be one of %s but got %s",
			strings.Join(Methods, ", "), raw.Request.Method))
	}

	errs = append(errs, validateEndpoints(raw, mode)...)

	errs = append(errs, exclusive("request.body", raw.Request.Body, "request.bodyPath", raw.Request.BodyPath)...)
	errs = append(errs, exclusive("request.serveBody", raw.Request.ServeBody, "request.serveBodyPath", raw.Request.ServeBodyPath)...)
	errs = append(errs, exclusive("response.body", raw.Response.Body, "response.bodyPath", raw.Response.BodyPath)...)
	errs = append(errs, exclusive("response.serveBody", raw.Response.ServeBody, "response.serveBodyPath", raw.Response.ServeBodyPath)...)

	switch code := raw.Response.Code; {
	case code == 0:
		errs = append(errs, "response.code is required")
	case code < 100 || code > 599:
		errs = append(errs, fmt.Sprintf("response.code must be a valid HTTP status code but got %d", code))
	}

	return errs
}

func validateEndpoints(raw RawConfig, mode Mode) []string {
	var errs []string

	if mode == ModeServe {
		if raw.Request.ServeEndpoint != "" {
			if !strings.HasPrefix(raw.Request.ServeEndpoint, "/") {
				errs = append(errs, "request.serveEndpoint must start with /")
			}
			return errs
		}
		if len(raw.Request.Endpoints) == 0 {
			return append(errs, "request.serveEndpoint or request.endpoints is required")
		}
	} else if len(raw.Request.Endpoints) == 0 {
		if raw.ServeOnly {
			return nil
		}
		return append(errs, "request.endpoints requires at least one endpoint")
	}

	for i, endpoint := range raw.Request.Endpoints {
		if strings.HasPrefix(endpoint, "/") {
			continue
		}
		if mode == ModeTest && isAbsoluteURL(endpoint) {
			continue
		}
		errs = append(errs, fmt.Sprintf("request.endpoints[%d] must start with / but got %q", i, endpoint))
	}
	return errs
}

func exclusive(inlineField string, inline any, pathField, path string) []string {
	if inline != nil && path != "" {
		return []string{fmt.Sprintf("%s and %s cannot both be set", inlineField, pathField)}
	}
	return nil
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
