package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sternrassler/starship-pilots/internal/testutil"
	"github.com/Sternrassler/starship-pilots/pkg/client"
	"github.com/Sternrassler/starship-pilots/pkg/resolver"
	"github.com/Sternrassler/starship-pilots/pkg/swapi"
)

func setupFleet(t *testing.T) *testutil.MockSWAPI {
	t.Helper()

	mock := testutil.NewMockSWAPI()
	base := mock.BaseURL()
	mock.SetPaginated("/starships/",
		[]any{testutil.Starship("Millennium Falcon", "6", base+"/people/13/", base+"/people/14/")},
		[]any{testutil.Starship("X-wing", "0", base+"/people/1/")},
	)
	mock.SetResource("/people/1/", testutil.Person("Luke Skywalker", base+"/people/1/"))
	mock.SetResource("/people/13/", testutil.Person("Chewbacca", base+"/people/13/"))
	mock.SetResource("/people/14/", testutil.Person("Han Solo", base+"/people/14/"))
	return mock
}

func newTestClient(t *testing.T, mock *testutil.MockSWAPI) *swapi.Client {
	t.Helper()
	c, err := swapi.New(client.DefaultConfig(mock.BaseURL()))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestCombosEndpoint(t *testing.T) {
	mock := setupFleet(t)
	defer mock.Close()

	server := httptest.NewServer(newServer(newTestClient(t, mock), resolver.Concurrent{}, 4))
	defer server.Close()

	for _, strategy := range []string{"", "sequential", "bounded"} {
		t.Run("strategy="+strategy, func(t *testing.T) {
			resp, err := http.Get(server.URL + "/combos?passengers=2&strategy=" + strategy)
			if err != nil {
				t.Fatalf("GET /combos failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", resp.StatusCode)
			}

			var body combosResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if body.Count != 2 || len(body.Combos) != 2 {
				t.Fatalf("Expected 2 combos, got %+v", body)
			}
			if body.Combos[0].Display != "Millennium Falcon - Chewbacca" || body.Combos[1].Pilot != "Han Solo" {
				t.Errorf("Unexpected combos: %+v", body.Combos)
			}
			wantStrategy := strategy
			if wantStrategy == "" {
				wantStrategy = resolver.StrategyConcurrent
			}
			if body.Strategy != wantStrategy {
				t.Errorf("Expected strategy %q, got %q", wantStrategy, body.Strategy)
			}
		})
	}

	// Three requests, one warm cache.
	if got := mock.RequestCountFor("/people/13/"); got != 1 {
		t.Errorf("/people/13/ requested %d times, want 1", got)
	}

	mock.Reset()
	resp, err := http.Get(server.URL + "/combos?passengers=2")
	if err != nil {
		t.Fatalf("GET /combos failed: %v", err)
	}
	resp.Body.Close()
	if got := mock.GetRequestCount(); got != 0 {
		t.Errorf("warm request reached SWAPI %d times, want 0", got)
	}
}

func TestCombosEndpoint_BadRequests(t *testing.T) {
	mock := setupFleet(t)
	defer mock.Close()

	server := httptest.NewServer(newServer(newTestClient(t, mock), resolver.Concurrent{}, 4))
	defer server.Close()

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing passengers", "", http.StatusBadRequest},
		{"negative passengers", "passengers=-3", http.StatusBadRequest},
		{"not a number", "passengers=lots", http.StatusBadRequest},
		{"unknown strategy", "passengers=1&strategy=warp", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(server.URL + "/combos?" + tt.query)
			if err != nil {
				t.Fatalf("GET /combos failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, resp.StatusCode)
			}

			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
				t.Errorf("Expected JSON error body, got %+v (decode err %v)", body, err)
			}
		})
	}

	resp, err := http.Post(server.URL+"/combos?passengers=1", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /combos failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp.StatusCode)
	}
}

func TestCombosEndpoint_UpstreamFailure(t *testing.T) {
	mock := setupFleet(t)
	defer mock.Close()
	mock.SetResponse("/people/14/", testutil.NewServerErrorResponse())

	server := httptest.NewServer(newServer(newTestClient(t, mock), resolver.Concurrent{}, 4))
	defer server.Close()

	resp, err := http.Get(server.URL + "/combos?passengers=1")
	if err != nil {
		t.Fatalf("GET /combos failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mock := setupFleet(t)
	defer mock.Close()

	server := httptest.NewServer(newServer(newTestClient(t, mock), resolver.Concurrent{}, 4))
	defer server.Close()

	// Populate metrics
	warm, err := http.Get(server.URL + "/combos?passengers=1")
	if err != nil {
		t.Fatalf("GET /combos failed: %v", err)
	}
	warm.Body.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{
		"swapi_requests_total",
		"swapi_cache_misses_total",
		"swapi_pages_walked_total",
		"swapi_resolutions_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("Expected metric %s in /metrics output", name)
		}
	}
}

func TestListCommand(t *testing.T) {
	mock := setupFleet(t)
	defer mock.Close()

	cmd := NewListCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{
		"--base-url", mock.BaseURL(),
		"--passengers", "1",
		"--strategy", "bounded",
		"--workers", "2",
		"--runs", "2",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	want := "Millennium Falcon - Chewbacca\nMillennium Falcon - Han Solo\n"
	if got := out.String(); got != want+want {
		t.Errorf("Unexpected output:\n%s", got)
	}

	// The second run is served entirely from the cache.
	if got := mock.RequestCountFor("/starships/"); got != 1 {
		t.Errorf("/starships/ requested %d times, want 1", got)
	}
}

func TestListCommand_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative passengers", []string{"--passengers", "-1"}},
		{"zero runs", []string{"--runs", "0"}},
		{"unknown strategy", []string{"--strategy", "warp"}},
		{"bounded without workers", []string{"--strategy", "bounded", "--workers", "0"}},
		{"relative base url", []string{"--base-url", "/api"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewListCommand()
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			cmd.SetArgs(tt.args)

			if err := cmd.Execute(); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SWAPI_TEST_VALUE", "set")

	if got := getEnv("SWAPI_TEST_VALUE", "default"); got != "set" {
		t.Errorf("getEnv() = %q, want set", got)
	}
	if got := getEnv("SWAPI_TEST_UNSET", "default"); got != "default" {
		t.Errorf("getEnv() = %q, want default", got)
	}
}

func TestClientFlags_EnvDefaults(t *testing.T) {
	t.Setenv("SWAPI_BASE_URL", "https://example.test/api")
	t.Setenv("SWAPI_USER_AGENT", "fleet-planner/1.0")

	cfg := NewClientFlags().Config()
	if cfg.BaseURL != "https://example.test/api" || cfg.UserAgent != "fleet-planner/1.0" {
		t.Errorf("Config() = %+v", cfg)
	}
}
