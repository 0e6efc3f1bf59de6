package nav

import (
	"sync"

	"railcross"
)

// Location models the single-segment fragment surface ("#/<panel>"). Set is
// an external navigation and notifies the subscribed handler; Replace is the
// synthetic hop a redirect issues and deliberately does not re-notify, which
// keeps a redirect to exactly one resolution pass.
type Location struct {
	mu       sync.Mutex
	fragment string
	onChange func(fragment string)
}

func NewLocation() *Location {
	return &Location{fragment: railcross.PanelHome.Fragment()}
}

// Subscribe registers the single change handler. The router owns it.
func (l *Location) Subscribe(fn func(fragment string)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Fragment returns the current fragment.
func (l *Location) Fragment() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fragment
}

// Set records the fragment and fires the change handler.
func (l *Location) Set(fragment string) {
	l.mu.Lock()
	l.fragment = fragment
	fn := l.onChange
	l.mu.Unlock()
	if fn != nil {
		fn(fragment)
	}
}

// Replace records the fragment without firing the change handler.
func (l *Location) Replace(fragment string) {
	l.mu.Lock()
	l.fragment = fragment
	l.mu.Unlock()
}

// ResolvePanel maps a fragment to its panel. The mapping is total: an absent
// fragment is the Home default, and anything unknown falls back to Home.
func ResolvePanel(fragment string) railcross.Panel {
	if fragment == "" {
		return railcross.PanelHome
	}
	for _, p := range railcross.Panels() {
		if p.Fragment() == fragment {
			return p
		}
	}
	return railcross.PanelHome
}
