package cache

import (
	"net/url"
	"strings"
)

// Key represents a unique identifier for a memoized request.
type Key struct {
	// Path is the resource path relative to the API base URL (e.g., "/starships/"),
	// without query string.
	Path string

	// Params are the query parameters, including any that were embedded in
	// the original path (e.g., {"page": "2"}).
	Params url.Values
}

// NewKey builds a Key from a relative path and optional params. A query
// string embedded in path is moved into Params so that "/ships/?page=2"
// and ("/ships/", page=2) produce the same key. Explicit params win over
// embedded ones.
func NewKey(path string, params url.Values) Key {
	merged := url.Values{}

	if i := strings.IndexByte(path, '?'); i >= 0 {
		if query, err := url.ParseQuery(path[i+1:]); err == nil {
			for key, values := range query {
				merged[key] = values
			}
			path = path[:i]
		}
	}

	for key, values := range params {
		merged[key] = append([]string(nil), values...)
	}

	if len(merged) == 0 {
		merged = nil
	}

	return Key{Path: path, Params: merged}
}

// String generates a deterministic cache key string.
// Format: swapi:path?encoded-params
//
// Params are encoded with url.Values.Encode (sorted by key, escaped), so
// values containing separators cannot collide with other params.
//
// Example:
//
//	swapi:starships?page=2
func (k Key) String() string {
	var b strings.Builder
	b.WriteString("swapi")

	if endpoint := strings.Trim(k.Path, "/"); endpoint != "" {
		b.WriteString(":")
		b.WriteString(endpoint)
	}

	if len(k.Params) > 0 {
		b.WriteString("?")
		b.WriteString(k.Params.Encode())
	}

	return b.String()
}
