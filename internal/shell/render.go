package shell

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/conneroisu/docshell/internal/catalog"
)

//go:embed templates/*
var templateFS embed.FS

// ViewState selects which body the content slot renders.
type ViewState string

const (
	// ViewContent shows a resolved content module.
	ViewContent ViewState = "content"
	// ViewFallback shows the spinner while the module is pending.
	ViewFallback ViewState = "fallback"
	// ViewLoadError shows the load-error panel with a retry control.
	ViewLoadError ViewState = "load-error"
	// ViewNotFound shows the catch-all page.
	ViewNotFound ViewState = "not-found"
)

// PageData is everything the shell template needs for one render.
type PageData struct {
	Title  string
	Path   string
	Anchor string
	// ScrollSerial is the scroll directive serial for this navigation; the
	// client echoes it so superseded directives are dropped server-side.
	ScrollSerial uint64
	State        ViewState
	Content      template.HTML
	LoadError    string
	NavOpen      bool
	Sections     []catalog.Section
	DefaultPath  string
}

// Renderer executes the shell layout template.
type Renderer struct {
	templates *template.Template
	sections  []catalog.Section
	home      string
}

// NewRenderer parses the embedded layout templates and binds the renderer to
// the catalog the navigation menu is derived from.
func NewRenderer(cat *catalog.Catalog) (*Renderer, error) {
	tmpl, err := template.New("shell").ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse shell templates: %w", err)
	}
	return &Renderer{
		templates: tmpl,
		sections:  cat.Sections(),
		home:      cat.DefaultPath(),
	}, nil
}

// Page renders the full shell around the given view.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	data.Sections = r.sections
	data.DefaultPath = r.home
	if data.Title == "" {
		data.Title = "docshell"
	}
	if err := r.templates.ExecuteTemplate(w, "shell.gohtml", data); err != nil {
		return fmt.Errorf("render shell: %w", err)
	}
	return nil
}
