// Package shell renders the persistent layout around the active route
// (header, collapsible side navigation, content slot, footer, toast mount)
// and owns the two pieces of cross-navigation coordination: nav visibility
// and scroll reset.
package shell

import "sync"

// NavState holds the side navigation's visibility. It is toggled only by
// explicit user interaction and has no relationship to routing: navigating
// never changes it and toggling never navigates.
type NavState struct {
	mutex  sync.Mutex
	isOpen bool
}

// NewNavState creates the nav state in its default-open position.
func NewNavState() *NavState {
	return &NavState{isOpen: true}
}

// IsOpen reports whether the navigation is currently visible.
func (n *NavState) IsOpen() bool {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.isOpen
}

// Toggle flips the visibility and returns the new value.
func (n *NavState) Toggle() bool {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.isOpen = !n.isOpen
	return n.isOpen
}
