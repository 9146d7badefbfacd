package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docshell/internal/config"
	"github.com/conneroisu/docshell/internal/loader"
	"github.com/conneroisu/docshell/internal/logging"
)

const testManifest = `
default_path: /home
sections:
  - name: Guide
    topics:
      - path: /home
        title: Welcome
      - path: /intro/setup
        title: Setup
      - path: /intro/broken
        title: Broken
`

func newTestServer(t *testing.T) *DocServer {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, dir, "home.html", "<h1>Welcome</h1>")
	writeFile(t, dir, "intro/setup.html", "<h1>Setup</h1><h2 id=\"install\">Install</h2>")
	// intro/broken has no content file on purpose.

	manifest := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(manifest, []byte(testManifest), 0o644))

	cfg := &config.Config{
		Server:      config.ServerConfig{Port: 8080, Host: "localhost"},
		Content:     config.ContentConfig{Dir: dir, Catalog: manifest},
		Development: config.DevelopmentConfig{Toasts: true},
		Log:         config.LogConfig{Level: "error", Format: "text"},
	}
	require.NoError(t, cfg.Validate())

	srv, err := New(cfg, logging.NewTestLogger())
	require.NoError(t, err)
	return srv
}

func writeFile(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

// settle requests a slug and waits for its handle to leave pending.
func settle(t *testing.T, srv *DocServer, slug string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	handle := srv.registry.Request(ctx, slug)
	_, _ = handle.Await(ctx)
	require.NotEqual(t, loader.StatusPending, handle.Status())
}

func get(srv *DocServer, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRootRedirect(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))
	// No content is rendered on the way through the redirect.
	assert.NotContains(t, rec.Body.String(), "<article")
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/does-not-exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
	// The catch-all page renders without any spinner phase.
	assert.NotContains(t, rec.Body.String(), "data-pending")
}

func TestTopicRendersContentOnceResolved(t *testing.T) {
	srv := newTestServer(t)
	settle(t, srv, "home")

	rec := get(srv, "/home")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Welcome</h1>")
	assert.NotContains(t, rec.Body.String(), "data-pending")
}

func TestTopicRendersLoadErrorPanel(t *testing.T) {
	srv := newTestServer(t)
	settle(t, srv, "intro/broken")

	rec := get(srv, "/intro/broken")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Couldn't load Broken")
	assert.Contains(t, body, "Try again")
	assert.NotContains(t, body, "spinner", "failed loads never leave the fallback up")
}

func TestRetryRemountsFailedModule(t *testing.T) {
	srv := newTestServer(t)
	settle(t, srv, "intro/broken")

	handle, ok := srv.registry.Peek("intro/broken")
	require.True(t, ok)
	require.Equal(t, loader.StatusFailed, handle.Status())

	// The fix lands on disk, then the user clicks "Try again".
	writeFile(t, srv.config.Content.Dir, "intro/broken.html", "<h1>Fixed</h1>")
	get(srv, "/intro/broken?retry=1")
	settle(t, srv, "intro/broken")

	fresh, ok := srv.registry.Peek("intro/broken")
	require.True(t, ok)
	assert.NotSame(t, handle, fresh)
	assert.Equal(t, loader.StatusReady, fresh.Status())
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/home", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAPIRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/api/routes")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Default string `json:"default"`
		Routes  []struct {
			Path string `json:"path"`
			Kind string `json:"kind"`
		} `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "/home", body.Default)
	require.Len(t, body.Routes, 5)
	assert.Equal(t, "redirect", body.Routes[0].Kind)
	assert.Equal(t, "not-found", body.Routes[len(body.Routes)-1].Kind)
}

func TestAPIContent_WaitResolves(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/api/content/home?wait=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp contentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Contains(t, resp.HTML, "<h1>Welcome</h1>")
	assert.False(t, resp.Cached, "first request is not served from cache")

	// Revisiting is served from the settled handle.
	rec = get(srv, "/api/content/home?wait=1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.True(t, resp.Cached)
}

func TestAPIContent_Failure(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/api/content/intro/broken?wait=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp contentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed", resp.Status)
	assert.Empty(t, resp.HTML)
	assert.NotEmpty(t, resp.Error)
}

func TestAPIContent_UnknownSlug(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/api/content/not-a-topic")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIContent_NormalizesSlug(t *testing.T) {
	srv := newTestServer(t)

	// Case and separator variants resolve to the declared slug.
	rec := get(srv, "/api/content/INTRO/SETUP?wait=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp contentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "intro/setup", resp.Slug)
	assert.Equal(t, "ready", resp.Status)

	// Inputs the normalizer rejects are misses, not lookups.
	rec = get(srv, "/api/content/bad:slug")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIContent_ReportsStaleScroll(t *testing.T) {
	srv := newTestServer(t)
	settle(t, srv, "home")
	settle(t, srv, "intro/setup")

	rec := get(srv, "/intro/setup")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-scroll-serial="1"`)

	// A second navigation supersedes the first directive.
	get(srv, "/home")

	var resp contentResponse
	rec = get(srv, "/api/content/intro/setup?wait=1&nav=1")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.ScrollStale, "superseded directive must not scroll")

	var current contentResponse
	rec = get(srv, "/api/content/home?wait=1&nav=2")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
	assert.False(t, current.ScrollStale)
}

func TestFailedLoadPushesToast(t *testing.T) {
	srv := newTestServer(t)
	settle(t, srv, "intro/broken")

	select {
	case data := <-srv.broadcast:
		var ev event
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, "toast", ev.Type)
		assert.Equal(t, "error", ev.Level)
		assert.Contains(t, ev.Message, "intro/broken")
	default:
		t.Fatal("no toast broadcast for the failed load")
	}
}

func TestNavToggle(t *testing.T) {
	srv := newTestServer(t)
	require.True(t, srv.nav.IsOpen())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/nav/toggle", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, srv.nav.IsOpen())

	// Toggling is rejected over GET.
	rec = get(srv, "/api/nav/toggle")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNavToggleIndependentOfRouting(t *testing.T) {
	srv := newTestServer(t)
	settle(t, srv, "home")
	settle(t, srv, "intro/setup")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/nav/toggle", nil))
	require.False(t, srv.nav.IsOpen())

	// Navigating between routes leaves the collapsed nav collapsed.
	get(srv, "/home")
	get(srv, "/intro/setup")
	assert.False(t, srv.nav.IsOpen())
	assert.Equal(t, "/intro/setup", srv.scroll.Active())

	// And toggling back open does not move the active route.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/nav/toggle", nil))
	assert.Equal(t, "/intro/setup", srv.scroll.Active())
}

func TestDeepLinkAnchor(t *testing.T) {
	srv := newTestServer(t)
	settle(t, srv, "intro/setup")

	rec := get(srv, "/intro/setup#install")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-anchor="install"`)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	settle(t, srv, "home")

	rec := get(srv, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"ready":1`)
}

func TestStaticAssets(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/static/app.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "javascript")

	rec = get(srv, "/static/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "css")

	rec = get(srv, "/static/missing.txt")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/health")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestCheckOrigin(t *testing.T) {
	srv := newTestServer(t)
	srv.config.Server.AllowedOrigins = []string{"docs.example.com"}

	tests := []struct {
		origin string
		want   bool
	}{
		{origin: "http://localhost:8080", want: true},
		{origin: "http://127.0.0.1:8080", want: true},
		{origin: "https://docs.example.com", want: true},
		{origin: "http://evil.example.com", want: false},
		{origin: "ftp://localhost:8080", want: false},
		{origin: "", want: false},
		{origin: "://broken", want: false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, srv.checkOrigin(r), "origin %q", tt.origin)
	}
}

func TestNotifierDisabled(t *testing.T) {
	srv := newTestServer(t)
	notifier := NewNotifier(srv, false)

	// Must not block or panic with no hub running.
	notifier.Enqueue("ignored", Options{})
	assert.Equal(t, 0, srv.clientCount())
}

func TestLoadErrorDetail(t *testing.T) {
	assert.Equal(t, "unknown load failure", loadErrorDetail(nil))
	assert.True(t, strings.Contains(loadErrorDetail(assert.AnError), "assert.AnError"))
}
