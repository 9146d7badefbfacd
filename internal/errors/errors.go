// Package errors defines the error taxonomy for docshell. A route miss is
// not an error (the catch-all entry absorbs it); the types here cover the
// cases that do surface: content module load failures and invalid catalog
// or content declarations found by the check command.
package errors

import (
	"fmt"
	"sync"
	"time"
)

// LoadPhase identifies where a module load failed.
type LoadPhase int

const (
	// PhaseResolve: the slug did not map to a content file.
	PhaseResolve LoadPhase = iota
	// PhaseRead: the content file could not be read.
	PhaseRead
	// PhaseParse: the content file was read but is not usable.
	PhaseParse
)

// String returns the phase name used in logs and the load-error panel.
func (p LoadPhase) String() string {
	switch p {
	case PhaseResolve:
		return "resolve"
	case PhaseRead:
		return "read"
	case PhaseParse:
		return "parse"
	default:
		return "unknown"
	}
}

// ModuleLoadError reports a failed content module fetch. It is stored on the
// failed loader handle and rendered by the shell's load-error panel.
type ModuleLoadError struct {
	Slug      string
	Phase     LoadPhase
	Err       error
	Timestamp time.Time
}

// NewModuleLoadError wraps a fetch failure with its slug and phase.
func NewModuleLoadError(slug string, phase LoadPhase, err error) *ModuleLoadError {
	return &ModuleLoadError{
		Slug:      slug,
		Phase:     phase,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface.
func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("load module %s: %s: %v", e.Slug, e.Phase, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ModuleLoadError) Unwrap() error {
	return e.Err
}

// CheckError reports one problem found by the check command.
type CheckError struct {
	Subject string // topic path or slug
	Detail  string
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Detail)
}

// Collector accumulates check failures across a validation run so a single
// invocation can report every problem instead of stopping at the first.
type Collector struct {
	mutex  sync.Mutex
	errors []error
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{errors: make([]error, 0)}
}

// Add records an error; nil errors are ignored.
func (c *Collector) Add(err error) {
	if err == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.errors = append(c.errors, err)
}

// Addf records a CheckError built from the subject and detail format.
func (c *Collector) Addf(subject, format string, args ...interface{}) {
	c.Add(&CheckError{Subject: subject, Detail: fmt.Sprintf(format, args...)})
}

// Errors returns a copy of the recorded errors.
func (c *Collector) Errors() []error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	out := make([]error, len(c.errors))
	copy(out, c.errors)
	return out
}

// HasErrors reports whether anything was recorded.
func (c *Collector) HasErrors() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.errors) > 0
}
