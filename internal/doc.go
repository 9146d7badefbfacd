// Package internal contains the core implementation packages for docshell.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the docshell CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - assets: Embedded client runtime (navigation script, stylesheet)
//   - catalog: Topic catalog, the single source of truth for routes and nav
//   - check: Catalog, content, and anchor validation
//   - config: Configuration management with validation
//   - errors: Load-failure taxonomy and error collection
//   - loader: Lazy content module loading with a per-module status handle
//   - logging: Structured logging built on log/slog
//   - routes: Static route table with exact matching and a catch-all
//   - server: HTTP server, WebSocket hub, notifications, and middleware
//   - shell: Layout rendering, nav visibility, and scroll coordination
//   - version: Build metadata
//   - watcher: File system monitoring with debouncing
package internal
