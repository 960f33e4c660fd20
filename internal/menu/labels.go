// Package menu owns the reserved button captions rendered by the bot's
// keyboards, and the classifier that separates them from ordinary text.
package menu

// Reserved button captions. The bot's own keyboards produce these, so
// matching is exact and case-sensitive: no trimming, no normalisation.
const (
	BtnAdminPanel   = "Admin Panel"
	BtnSettings     = "⚙️ Settings"
	BtnFormat       = "Format"
	BtnSubscription = "Subscription"
	BtnBack         = "Back"

	BtnBroadcast = "📢 Broadcast"
	BtnStats     = "📊 Stats"
	BtnTop10     = "🏆 Top 10"
	BtnAllUsers  = "👥 All users"

	BtnH265  = "h265"
	BtnH264  = "h264"
	BtnAudio = "audio"
)

// Classification of a message text against the registry.
type Classification int

const (
	// Ordinary text is free-form user content.
	Ordinary Classification = iota
	// SystemReserved text equals one of the registry captions.
	SystemReserved
)

// Registry is the fixed set of reserved captions plus the single caption
// that doubles as the admin panel trigger. Built once, read-only after.
type Registry struct {
	labels       map[string]struct{}
	adminTrigger string
}

// NewRegistry builds a registry from the given captions. The trigger is
// added to the label set if it is not already present.
func NewRegistry(labels []string, adminTrigger string) *Registry {
	set := make(map[string]struct{}, len(labels)+1)
	for _, l := range labels {
		set[l] = struct{}{}
	}
	set[adminTrigger] = struct{}{}
	return &Registry{labels: set, adminTrigger: adminTrigger}
}

// DefaultRegistry returns the registry covering all built-in menus.
func DefaultRegistry() *Registry {
	return NewRegistry([]string{
		BtnAdminPanel, BtnSettings, BtnFormat, BtnSubscription, BtnBack,
		BtnBroadcast, BtnStats, BtnTop10, BtnAllUsers,
		BtnH265, BtnH264, BtnAudio,
	}, BtnAdminPanel)
}

// Classify reports whether text is a reserved system caption. Classification
// is a pure function of the text and the registry: it never looks at who
// sent the message. Absent text ("") never matches, since every reserved
// caption is a known non-empty literal.
func (r *Registry) Classify(text string) Classification {
	if text == "" {
		return Ordinary
	}
	if _, ok := r.labels[text]; ok {
		return SystemReserved
	}
	return Ordinary
}

// AdminTrigger returns the one reserved caption that is also a
// dispatchable command.
func (r *Registry) AdminTrigger() string {
	return r.adminTrigger
}
