// Package catalog defines the documentation catalog: the single declarative
// source of truth from which both the route table and the navigation menu are
// derived. Keeping one declaration prevents the two from drifting apart.
package catalog

import (
	"fmt"
	"strings"
)

// Topic is one documentation page in the catalog.
type Topic struct {
	// Slug identifies the content module on disk (relative path, no extension).
	Slug string `yaml:"slug"`
	// Path is the URL path the topic is served under (e.g. "/intro/debugging").
	Path string `yaml:"path"`
	// Title is the human-readable name shown in the navigation menu.
	Title string `yaml:"title"`
	// Anchors lists in-page anchor ids the topic declares, used by the
	// check command to validate scroll targets against the content.
	Anchors []string `yaml:"anchors,omitempty"`
}

// Section groups related topics under a navigation heading.
type Section struct {
	Name   string  `yaml:"name"`
	Topics []Topic `yaml:"topics"`
}

// Catalog holds the ordered sections and provides indexed lookups.
type Catalog struct {
	sections    []Section
	byPath      map[string]*Topic
	bySlug      map[string]*Topic
	defaultPath string
}

// New builds a catalog from ordered sections and validates its invariants:
// paths and slugs must be unique, every path must be rooted, and the default
// path must name a declared topic.
func New(sections []Section, defaultPath string) (*Catalog, error) {
	c := &Catalog{
		sections:    sections,
		byPath:      make(map[string]*Topic),
		bySlug:      make(map[string]*Topic),
		defaultPath: defaultPath,
	}

	for si := range sections {
		for ti := range sections[si].Topics {
			topic := &sections[si].Topics[ti]

			if topic.Slug == "" {
				topic.Slug = strings.TrimPrefix(topic.Path, "/")
			}
			if !strings.HasPrefix(topic.Path, "/") {
				return nil, &Error{Path: topic.Path, Reason: "path must start with /"}
			}
			if topic.Path == "/" {
				return nil, &Error{Path: topic.Path, Reason: "root path is reserved for the redirect entry"}
			}
			if _, dup := c.byPath[topic.Path]; dup {
				return nil, &Error{Path: topic.Path, Reason: "duplicate path"}
			}
			if _, dup := c.bySlug[topic.Slug]; dup {
				return nil, &Error{Path: topic.Path, Reason: fmt.Sprintf("duplicate slug %q", topic.Slug)}
			}

			c.byPath[topic.Path] = topic
			c.bySlug[topic.Slug] = topic
		}
	}

	if len(c.byPath) == 0 {
		return nil, &Error{Reason: "catalog declares no topics"}
	}
	if _, ok := c.byPath[defaultPath]; !ok {
		return nil, &Error{Path: defaultPath, Reason: "default path does not name a declared topic"}
	}

	return c, nil
}

// Sections returns the ordered sections for navigation rendering.
func (c *Catalog) Sections() []Section {
	return c.sections
}

// Topics returns every topic in declaration order.
func (c *Catalog) Topics() []Topic {
	var topics []Topic
	for _, section := range c.sections {
		topics = append(topics, section.Topics...)
	}
	return topics
}

// ByPath looks up a topic by its URL path.
func (c *Catalog) ByPath(path string) (*Topic, bool) {
	topic, ok := c.byPath[path]
	return topic, ok
}

// BySlug looks up a topic by its content slug.
func (c *Catalog) BySlug(slug string) (*Topic, bool) {
	topic, ok := c.bySlug[slug]
	return topic, ok
}

// DefaultPath returns the path the root URL redirects to.
func (c *Catalog) DefaultPath() string {
	return c.defaultPath
}

// Count returns the number of declared topics.
func (c *Catalog) Count() int {
	return len(c.byPath)
}

// Error reports an invalid catalog declaration.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid catalog: %s", e.Reason)
	}
	return fmt.Sprintf("invalid catalog entry %s: %s", e.Path, e.Reason)
}
