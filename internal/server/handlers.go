package server

import (
	"encoding/json"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/conneroisu/docshell/internal/assets"
	"github.com/conneroisu/docshell/internal/catalog"
	"github.com/conneroisu/docshell/internal/loader"
	"github.com/conneroisu/docshell/internal/routes"
	"github.com/conneroisu/docshell/internal/shell"
)

// handleRoute is the root handler: it matches the URL against the route
// table and renders the shell around whichever view the match selects.
func (s *DocServer) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Fragments normally stay client-side; tolerate them in the path so
	// deep links with anchors match their route either way.
	path, anchor := routes.SplitAnchor(r.URL.Path)
	if anchor == "" {
		anchor = r.URL.Fragment
	}

	entry := s.table.Match(path)

	switch entry.Kind {
	case routes.KindRedirect:
		// The root entry never renders content of its own; redirecting
		// before any module is requested avoids a flash of wrong content.
		http.Redirect(w, r, entry.Target, http.StatusFound)
		return
	case routes.KindNotFound:
		s.renderNotFound(w, r)
		return
	}

	if r.URL.Query().Get("retry") == "1" {
		// Explicit remount: a failed handle is dropped so this request
		// creates a fresh one. Settled parameters never reset in place.
		s.registry.Invalidate(entry.Slug)
	}

	handle := s.registry.Request(r.Context(), entry.Slug)
	directive := s.scroll.Navigate(entry.Path, anchor)

	data := shell.PageData{
		Title:        entry.Title,
		Path:         entry.Path,
		Anchor:       directive.Anchor,
		ScrollSerial: directive.Serial,
		NavOpen:      s.nav.IsOpen(),
	}

	switch handle.Status() {
	case loader.StatusReady:
		data.State = shell.ViewContent
		data.Content = template.HTML(handle.Module().HTML)
	case loader.StatusFailed:
		data.State = shell.ViewLoadError
		data.LoadError = loadErrorDetail(handle.Err())
	default:
		// Pending: serve the fallback spinner; the client runtime swaps
		// in the content once the module resolves.
		data.State = shell.ViewFallback
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Page(w, data); err != nil {
		s.logger.Error(r.Context(), err, "shell render failed", "path", entry.Path)
	}
}

func (s *DocServer) renderNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	data := shell.PageData{
		Title:   "Not found",
		Path:    r.URL.Path,
		State:   shell.ViewNotFound,
		NavOpen: s.nav.IsOpen(),
	}
	if err := s.renderer.Page(w, data); err != nil {
		s.logger.Error(r.Context(), err, "not-found render failed", "path", r.URL.Path)
	}
}

// routeInfo is one row of the /api/routes payload the client router uses.
type routeInfo struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Slug   string `json:"slug,omitempty"`
	Title  string `json:"title,omitempty"`
	Target string `json:"target,omitempty"`
}

func (s *DocServer) handleAPIRoutes(w http.ResponseWriter, r *http.Request) {
	entries := s.table.Entries()
	infos := make([]routeInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, routeInfo{
			Path:   entry.Path,
			Kind:   entry.Kind.String(),
			Slug:   entry.Slug,
			Title:  entry.Title,
			Target: entry.Target,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"default": s.catalog.DefaultPath(),
		"routes":  infos,
	})
}

// contentResponse is the /api/content payload: the handle status plus the
// fragment when ready.
type contentResponse struct {
	Slug   string `json:"slug"`
	Status string `json:"status"`
	Title  string `json:"title,omitempty"`
	HTML   string `json:"html,omitempty"`
	Error  string `json:"error,omitempty"`
	Cached bool   `json:"cached"`
	// ScrollStale marks a response whose navigation was superseded, so
	// the client swaps content without moving the scroll position.
	ScrollStale bool `json:"scrollStale,omitempty"`
}

// handleAPIContent serves one content module. With ?wait=1 it blocks until
// the handle settles (bounded by the request context), which is how the
// client runtime keeps its spinner up for exactly the pending phase.
func (s *DocServer) handleAPIContent(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/content/")
	slug, err := catalog.NormalizeSlug(raw)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown content module"})
		return
	}
	topic, ok := s.catalog.BySlug(slug)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown content module"})
		return
	}

	if r.URL.Query().Get("retry") == "1" {
		s.registry.Invalidate(slug)
	}

	handle := s.registry.Request(r.Context(), slug)
	resp := contentResponse{
		Slug:   slug,
		Title:  topic.Title,
		Cached: handle.Status() == loader.StatusReady,
	}

	if r.URL.Query().Get("wait") == "1" {
		if _, err := handle.Await(r.Context()); err != nil && handle.Status() == loader.StatusPending {
			// Client went away while the fetch was in flight; the fetch
			// itself finishes in the background and stays cached.
			return
		}
	}

	resp.Status = handle.Status().String()
	switch handle.Status() {
	case loader.StatusReady:
		resp.HTML = string(handle.Module().HTML)
	case loader.StatusFailed:
		resp.Error = loadErrorDetail(handle.Err())
	}

	// The client echoes the scroll serial from its rendered page; a
	// directive superseded by a later navigation must not scroll.
	if nav := r.URL.Query().Get("nav"); nav != "" {
		if serial, parseErr := strconv.ParseUint(nav, 10, 64); parseErr == nil {
			resp.ScrollStale = !s.scroll.Apply(shell.ScrollDirective{Route: topic.Path, Serial: serial})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleNavToggle flips the shell's nav visibility. The toggle is pure UI
// state: it never touches routing and routing never touches it.
func (s *DocServer) handleNavToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"open": s.nav.Toggle()})
}

func (s *DocServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	statuses := s.registry.Statuses()
	counts := map[string]int{}
	for _, status := range statuses {
		counts[status.String()]++
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"topics":  s.catalog.Count(),
		"modules": counts,
		"clients": s.clientCount(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *DocServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/static/")
	data, contentType, ok := assets.Lookup(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func loadErrorDetail(err error) string {
	if err == nil {
		return "unknown load failure"
	}
	return err.Error()
}

// samePath compares filesystem paths after cleaning, tolerating the
// relative/absolute mix fsnotify can report.
func samePath(a, b string) bool {
	ca, errA := filepath.Abs(filepath.Clean(a))
	cb, errB := filepath.Abs(filepath.Clean(b))
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return ca == cb
}
