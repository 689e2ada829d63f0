// Package testutil provides testing utilities for the SWAPI engine.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// APIPrefix is the path under which the mock serves its resources, so that
// BaseURL looks like a real API root ("http://127.0.0.1:1234/api").
const APIPrefix = "/api"

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockSWAPI is a configurable mock SWAPI server for testing.
type MockSWAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	requests map[string]int

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
}

// NewMockSWAPI creates a new mock SWAPI server.
func NewMockSWAPI() *MockSWAPI {
	mock := &MockSWAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		requests: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeFor(r)

		mock.mu.Lock()
		mock.RequestCount++
		mock.requests[route]++
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[route]
		if !exists {
			handler, exists = mock.handlers[strings.TrimPrefix(r.URL.Path, APIPrefix)]
		}
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// routeFor returns the resource path relative to APIPrefix, including the
// query string when present ("/starships/?page=2").
func routeFor(r *http.Request) string {
	route := strings.TrimPrefix(r.URL.Path, APIPrefix)
	if r.URL.RawQuery != "" {
		route += "?" + r.URL.RawQuery
	}
	return route
}

// URL returns the mock server root URL.
func (m *MockSWAPI) URL() string {
	return m.server.URL
}

// BaseURL returns the API root to configure clients with.
func (m *MockSWAPI) BaseURL() string {
	return m.server.URL + APIPrefix
}

// Close shuts down the mock server.
func (m *MockSWAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockSWAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.requests = make(map[string]int)
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a route ("/people/1/" or "/starships/?page=2").
func (m *MockSWAPI) SetHandler(route string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[route] = handler
}

// SetResponse configures a simple response for a route.
func (m *MockSWAPI) SetResponse(route string, resp MockResponse) {
	m.SetHandler(route, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetResource serves v as JSON on route.
func (m *MockSWAPI) SetResource(route string, v any) {
	m.SetResourceWithDelay(route, v, 0)
}

// SetResourceWithDelay serves v as JSON on route after delay.
func (m *MockSWAPI) SetResourceWithDelay(route string, v any, delay time.Duration) {
	resp := NewJSONResponse(mustJSON(v))
	resp.Delay = delay
	m.SetResponse(route, resp)
}

// SetPaginated serves pages of items for a collection path such as
// "/starships/". Page 1 lives at the bare path and page i at "?page=i";
// next/previous links are absolute, like the real API returns them.
// Calling it with no pages serves one empty page with next=null.
func (m *MockSWAPI) SetPaginated(collection string, pages ...[]any) {
	if len(pages) == 0 {
		pages = [][]any{{}}
	}

	total := 0
	for _, page := range pages {
		total += len(page)
	}

	for i, items := range pages {
		number := i + 1

		var next, previous *string
		if number < len(pages) {
			link := fmt.Sprintf("%s%s?page=%d", m.BaseURL(), collection, number+1)
			next = &link
		}
		if number > 1 {
			link := fmt.Sprintf("%s%s?page=%d", m.BaseURL(), collection, number-1)
			previous = &link
		}

		if items == nil {
			items = []any{}
		}
		body := map[string]any{
			"count":    total,
			"next":     next,
			"previous": previous,
			"results":  items,
		}

		route := collection
		if number > 1 {
			route = fmt.Sprintf("%s?page=%d", collection, number)
		}
		m.SetResource(route, body)
	}
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockSWAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockSWAPI) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader.Clone()
}

// RequestCountFor returns the number of requests made to one route.
func (m *MockSWAPI) RequestCountFor(route string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[route]
}

// defaultHandler answers unknown routes the way SWAPI does.
func (m *MockSWAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"detail": "Not found"}`))
}

// NewJSONResponse creates a standard 200 OK JSON response.
func NewJSONResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"detail": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewMalformedResponse creates a 200 OK response whose body is not valid JSON.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"name": "Luke`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// Person builds a minimal SWAPI person payload.
func Person(name, url string) map[string]any {
	return map[string]any{
		"name":      name,
		"url":       url,
		"starships": []string{},
	}
}

// Starship builds a minimal SWAPI starship payload.
func Starship(name, passengers string, pilots ...string) map[string]any {
	if pilots == nil {
		pilots = []string{}
	}
	return map[string]any{
		"name":       name,
		"passengers": passengers,
		"pilots":     pilots,
	}
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal fixture: %v", err))
	}
	return string(data)
}
