package api

import (
	"fmt"
	"net/url"
)

// Endpoint is the immutable descriptor of one remote operation: HTTP method,
// path template and, optionally, a pinned API version. Service packages
// declare one descriptor per operation and resolve templates with Format.
type Endpoint struct {
	// Method is the HTTP method: GET, POST, PUT, PATCH or DELETE.
	Method string

	// Path is the path below /api/<version>/, e.g. "clusters/list" or a
	// template like "sql/warehouses/%s". Resource-type tokens are lowercase.
	Path string

	// Version pins the API version for this operation, e.g. "2.1" for the
	// jobs family. Empty means the Config's version applies.
	Version string
}

// Format resolves a path template by substituting args into the template's
// verbs. Args are path-escaped, so raw resource IDs are safe to pass.
func (e Endpoint) Format(args ...any) Endpoint {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(fmt.Sprint(a))
	}
	e.Path = fmt.Sprintf(e.Path, escaped...)
	return e
}

// String returns "METHOD path" for error reporting and logs.
func (e Endpoint) String() string {
	return e.Method + " " + e.Path
}
