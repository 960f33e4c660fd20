// Package dispatch decides where an inbound text goes: the default
// handler, the admin panel handler, or nowhere at all.
package dispatch

import "github.com/klipgrab/klipgrab/internal/menu"

// Outcome is the routing decision for one inbound message.
type Outcome int

const (
	// Default forwards the message to ordinary content handling.
	Default Outcome = iota
	// AdminPanel forwards the message to the admin panel entry point.
	AdminPanel
	// Suppressed swallows the message. Reserved captions other than the
	// admin trigger must never surface as user content, and a system
	// button click with no matching handler is not a user-facing error.
	Suppressed
)

func (o Outcome) String() string {
	switch o {
	case Default:
		return "default"
	case AdminPanel:
		return "admin-panel"
	case Suppressed:
		return "suppressed"
	}
	return "unknown"
}

// Gate applies a precedence-ordered decision table over the button
// registry. It is stateless and total: every text resolves to exactly one
// outcome, independent of any prior message.
type Gate struct {
	registry *menu.Registry
}

// NewGate creates a Gate over the given registry.
func NewGate(registry *menu.Registry) *Gate {
	return &Gate{registry: registry}
}

// Route picks the outcome for text.
//
// The admin panel trigger is both a reserved caption and an actionable
// command. Dropping every reserved caption would break the one button that
// must stay clickable, so the trigger passes through for every sender and
// the panel handler performs its own authorization check. Future captions
// needing special handling get a new row here, not a boolean patch.
func (g *Gate) Route(text string) Outcome {
	if g.registry.Classify(text) == menu.SystemReserved {
		if text == g.registry.AdminTrigger() {
			return AdminPanel
		}
		return Suppressed
	}
	return Default
}
