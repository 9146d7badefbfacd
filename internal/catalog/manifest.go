package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest mirrors the docshell.catalog.yml file layout.
type Manifest struct {
	DefaultPath string    `yaml:"default_path"`
	Sections    []Section `yaml:"sections"`
}

// LoadManifest reads a YAML catalog manifest and builds a validated catalog
// from it. Section and topic order in the file is preserved for navigation.
func LoadManifest(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest builds a catalog from raw manifest bytes.
func ParseManifest(data []byte) (*Catalog, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse catalog manifest: %w", err)
	}

	if m.DefaultPath == "" {
		m.DefaultPath = DefaultPath
	}

	for si := range m.Sections {
		for ti := range m.Sections[si].Topics {
			topic := &m.Sections[si].Topics[ti]
			if topic.Slug == "" {
				continue
			}
			slug, err := NormalizeSlug(topic.Slug)
			if err != nil {
				return nil, fmt.Errorf("catalog manifest entry %s: %w", topic.Path, err)
			}
			topic.Slug = slug
		}
	}

	c, err := New(m.Sections, m.DefaultPath)
	if err != nil {
		return nil, fmt.Errorf("catalog manifest: %w", err)
	}
	return c, nil
}
