package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conneroisu/docshell/internal/errors"
)

func errNilModule(slug string) error {
	return errors.NewModuleLoadError(slug, errors.PhaseParse, fmt.Errorf("fetcher returned nil module"))
}

// DiskFetcher resolves content slugs to HTML fragments under a root
// directory: slug "intro/debugging" maps to <root>/intro/debugging.html.
type DiskFetcher struct {
	root string
}

// NewDiskFetcher creates a fetcher rooted at dir.
func NewDiskFetcher(dir string) *DiskFetcher {
	return &DiskFetcher{root: filepath.Clean(dir)}
}

// Path returns the content file path for a slug, rejecting slugs that would
// escape the content root.
func (f *DiskFetcher) Path(slug string) (string, error) {
	rel := filepath.FromSlash(slug) + ".html"
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("slug %q escapes the content root", slug)
	}
	return filepath.Join(f.root, rel), nil
}

// Fetch loads the content module for slug from disk.
func (f *DiskFetcher) Fetch(ctx context.Context, slug string) (*Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := f.Path(slug)
	if err != nil {
		return nil, errors.NewModuleLoadError(slug, errors.PhaseResolve, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewModuleLoadError(slug, errors.PhaseResolve, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewModuleLoadError(slug, errors.PhaseRead, err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.NewModuleLoadError(slug, errors.PhaseParse,
			fmt.Errorf("content file %s is empty", path))
	}

	return &Module{
		Slug:     slug,
		HTML:     data,
		ModTime:  info.ModTime(),
		LoadedAt: time.Now(),
	}, nil
}
