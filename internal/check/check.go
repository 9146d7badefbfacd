// Package check validates that the deployed content matches the catalog:
// every topic resolves to a non-empty content file, every declared anchor
// exists as an element id in its fragment, and the route table invariants
// hold. It backs the "docshell check" command.
package check

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/net/html"

	"github.com/conneroisu/docshell/internal/catalog"
	"github.com/conneroisu/docshell/internal/errors"
	"github.com/conneroisu/docshell/internal/loader"
	"github.com/conneroisu/docshell/internal/routes"
)

// Result summarizes a validation run.
type Result struct {
	Topics   int
	Checked  int
	Problems []error
}

// Ok reports whether the run found no problems.
func (r *Result) Ok() bool {
	return len(r.Problems) == 0
}

// Run validates the catalog against the content directory.
func Run(cat *catalog.Catalog, contentDir string) *Result {
	collector := errors.NewCollector()
	result := &Result{Topics: cat.Count()}

	// Building the table re-checks path uniqueness and catch-all coverage.
	if _, err := routes.Build(cat); err != nil {
		collector.Add(err)
	}

	fetcher := loader.NewDiskFetcher(contentDir)
	for _, topic := range cat.Topics() {
		path, err := fetcher.Path(topic.Slug)
		if err != nil {
			collector.Addf(topic.Path, "invalid slug: %v", err)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			collector.Addf(topic.Path, "content file missing: %s", path)
			continue
		}
		result.Checked++

		if len(bytes.TrimSpace(data)) == 0 {
			collector.Addf(topic.Path, "content file is empty: %s", path)
			continue
		}

		if len(topic.Anchors) == 0 {
			continue
		}
		ids, err := collectIDs(data)
		if err != nil {
			collector.Addf(topic.Path, "content is not parseable HTML: %v", err)
			continue
		}
		for _, anchor := range topic.Anchors {
			if !ids[anchor] {
				collector.Addf(topic.Path, "declared anchor %q not found in %s", anchor, path)
			}
		}
	}

	result.Problems = collector.Errors()
	return result
}

// collectIDs parses an HTML fragment and gathers every element id.
func collectIDs(fragment []byte) (map[string]bool, error) {
	root, err := html.Parse(bytes.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	ids := make(map[string]bool)
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, attr := range node.Attr {
				if attr.Key == "id" && attr.Val != "" {
					ids[attr.Val] = true
				}
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return ids, nil
}
