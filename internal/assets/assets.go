// Package assets embeds the client runtime served under /static/: the
// script implementing history-based navigation, the spinner fallback, scroll
// reset, the nav toggle, and toast rendering, plus the shell stylesheet.
package assets

import "embed"

//go:embed static/*
var staticFS embed.FS

var contentTypes = map[string]string{
	".js":  "application/javascript; charset=utf-8",
	".css": "text/css; charset=utf-8",
}

// Lookup returns the named static asset and its content type.
func Lookup(name string) ([]byte, string, bool) {
	data, err := staticFS.ReadFile("static/" + name)
	if err != nil {
		return nil, "", false
	}
	for ext, contentType := range contentTypes {
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			return data, contentType, true
		}
	}
	return data, "application/octet-stream", true
}
