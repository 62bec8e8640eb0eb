// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"net/http"
	"net/url"
	"strings"

	"bikeshare/internal/core"
)

// RangeParams holds the raw start/end values of a request.
type RangeParams struct {
	Start string
	End   string
}

// ParseRangeParams extracts start and end from query or form values.
func ParseRangeParams(values url.Values) RangeParams {
	return RangeParams{
		Start: sanitizeInput(values.Get("start")),
		End:   sanitizeInput(values.Get("end")),
	}
}

// Resolve turns the raw values into a range inside bounds. Blank values
// default to the bounds. A malformed value yields the full bounds together
// with the parse error so the caller can log it.
func (p RangeParams) Resolve(bounds core.DateRange) (core.DateRange, error) {
	return core.ParseDateRange(p.Start, p.End, bounds)
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequireGET is a convenience function for read-only handlers.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Malformed request")
	}
	return nil
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
