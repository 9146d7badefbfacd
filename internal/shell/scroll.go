package shell

import "sync"

// ScrollDirective tells the content area where to land after a navigation:
// the top of the container, or an in-page anchor when the target carried one.
type ScrollDirective struct {
	// Route is the route path the directive belongs to. A directive is
	// only applied while its route is still the active one.
	Route string
	// Anchor is the in-page element id to scroll to; empty means top.
	Anchor string
	// Serial orders directives; later navigations supersede earlier ones.
	Serial uint64
}

// ToTop reports whether the directive targets the top of the content area.
func (d ScrollDirective) ToTop() bool {
	return d.Anchor == ""
}

// ScrollCoordinator emits exactly one scroll directive per completed route
// transition and discards directives that were superseded by a faster
// follow-up navigation. It does not wait for content to resolve: the
// directive is keyed to the route identity, not the loaded module.
type ScrollCoordinator struct {
	mutex  sync.Mutex
	active string
	serial uint64
}

// NewScrollCoordinator creates a coordinator with no active route.
func NewScrollCoordinator() *ScrollCoordinator {
	return &ScrollCoordinator{}
}

// Navigate records route as the active destination and returns the single
// directive for this transition. The first navigation of a session honors a
// deep-linked anchor the same way later ones do.
func (s *ScrollCoordinator) Navigate(route, anchor string) ScrollDirective {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.active = route
	s.serial++
	return ScrollDirective{Route: route, Anchor: anchor, Serial: s.serial}
}

// Apply reports whether a directive should still be acted on. A directive
// for a route that is no longer active (rapid successive navigations) is
// dropped so the wrong page is never scrolled.
func (s *ScrollCoordinator) Apply(d ScrollDirective) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return d.Route == s.active && d.Serial == s.serial
}

// Active returns the route the coordinator currently considers on-screen.
func (s *ScrollCoordinator) Active() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.active
}
