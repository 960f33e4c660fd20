package identity

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// AllowList is the set of user ids treated as administrators. It is built
// once at startup and never mutated afterwards, so unsynchronized
// concurrent lookups are safe.
type AllowList map[UserID]struct{}

// ParseAllowList parses a comma-separated list of numeric user ids, e.g.
// "123456789, 987654321". Whitespace around entries is ignored. Malformed
// entries are skipped rather than failing the whole list, so one typo does
// not lock out the remaining admins. An empty or unset value yields an
// empty list: nobody is an admin.
func ParseAllowList(raw string) AllowList {
	list := make(AllowList)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			slog.Warn("ignoring malformed admin id", "value", part)
			continue
		}
		list[UserID(id)] = struct{}{}
	}
	return list
}

// Contains reports whether id is on the allow list.
func (a AllowList) Contains(id UserID) bool {
	_, ok := a[id]
	return ok
}

// IDs returns the listed user ids in ascending order.
func (a AllowList) IDs() []UserID {
	ids := make([]UserID, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Resolver decides admin status for inbound messages.
type Resolver struct {
	allow AllowList
}

// NewResolver creates a Resolver over the given allow list.
func NewResolver(allow AllowList) *Resolver {
	return &Resolver{allow: allow}
}

// IsAdmin reports whether the message author is an administrator.
//
// A nil from means the message carries no sender (channel posts do this);
// that is a valid state and it fails closed. The check consults the
// sender's UserID and nothing else — a chat id is the wrong type and does
// not get past the compiler.
func (r *Resolver) IsAdmin(from *UserID) bool {
	if from == nil {
		return false
	}
	return r.allow.Contains(*from)
}
