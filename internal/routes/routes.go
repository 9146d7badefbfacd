// Package routes declares the static route table and its matching rules.
// The table is built once from the catalog at startup and never mutated:
// every declared topic becomes an exact-match entry, the root path becomes a
// redirect to the default topic, and a single catch-all entry guarantees that
// matching is total.
package routes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conneroisu/docshell/internal/catalog"
)

// Kind distinguishes how a matched entry should be handled.
type Kind int

const (
	// KindTopic mounts a lazily loaded content module.
	KindTopic Kind = iota
	// KindRedirect sends the client to Entry.Target without rendering content.
	KindRedirect
	// KindNotFound is the catch-all for URLs matching no declared path.
	KindNotFound
)

// String returns the kind name used in route listings.
func (k Kind) String() string {
	switch k {
	case KindTopic:
		return "topic"
	case KindRedirect:
		return "redirect"
	case KindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Entry is one immutable row of the route table.
type Entry struct {
	// Path is the exact URL path this entry matches; "*" for the catch-all.
	Path string
	// Kind selects topic, redirect, or not-found handling.
	Kind Kind
	// Slug identifies the content module for KindTopic entries.
	Slug string
	// Title is the topic title for KindTopic entries.
	Title string
	// Target is the destination path for KindRedirect entries.
	Target string
}

// CatchAllPath marks the single lowest-priority entry.
const CatchAllPath = "*"

// Table matches URL paths against the declared entries. Matching is
// case-sensitive exact string comparison; the catch-all is consulted only
// when no declared path matches, so no input can yield "no match".
type Table struct {
	entries  []Entry
	byPath   map[string]*Entry
	catchAll *Entry
	redirect *Entry
}

// Build derives the route table from the catalog. The resulting table holds
// one redirect entry for "/", one exact entry per topic, and the trailing
// catch-all.
func Build(cat *catalog.Catalog) (*Table, error) {
	t := &Table{byPath: make(map[string]*Entry)}

	t.entries = append(t.entries, Entry{
		Path:   "/",
		Kind:   KindRedirect,
		Target: cat.DefaultPath(),
	})

	for _, topic := range cat.Topics() {
		t.entries = append(t.entries, Entry{
			Path:  topic.Path,
			Kind:  KindTopic,
			Slug:  topic.Slug,
			Title: topic.Title,
		})
	}

	t.entries = append(t.entries, Entry{Path: CatchAllPath, Kind: KindNotFound})

	for i := range t.entries {
		entry := &t.entries[i]
		switch entry.Kind {
		case KindNotFound:
			if t.catchAll != nil {
				return nil, fmt.Errorf("route table declares more than one catch-all")
			}
			t.catchAll = entry
		case KindRedirect:
			t.redirect = entry
			fallthrough
		default:
			if _, dup := t.byPath[entry.Path]; dup {
				return nil, fmt.Errorf("route table declares duplicate path %q", entry.Path)
			}
			t.byPath[entry.Path] = entry
		}
	}

	if t.catchAll == nil {
		return nil, fmt.Errorf("route table declares no catch-all")
	}
	return t, nil
}

// Match selects exactly one entry for the given URL path. Declared paths win
// over the catch-all even when one declared path is a prefix of another; the
// catch-all matches everything else.
func (t *Table) Match(path string) Entry {
	if entry, ok := t.byPath[path]; ok {
		return *entry
	}
	return *t.catchAll
}

// Entries returns a copy of the table rows in match-priority order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// TopicPaths returns every KindTopic path in declaration order.
func (t *Table) TopicPaths() []string {
	var paths []string
	for _, entry := range t.entries {
		if entry.Kind == KindTopic {
			paths = append(paths, entry.Path)
		}
	}
	return paths
}

// Slugs returns the set of content slugs the table can mount, sorted.
func (t *Table) Slugs() []string {
	var slugs []string
	for _, entry := range t.entries {
		if entry.Kind == KindTopic {
			slugs = append(slugs, entry.Slug)
		}
	}
	sort.Strings(slugs)
	return slugs
}

// SplitAnchor separates an in-page anchor from a navigation target.
func SplitAnchor(target string) (path, anchor string) {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		return target[:i], target[i+1:]
	}
	return target, ""
}
