package handlers

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/klipgrab/klipgrab/internal/bus"
	"github.com/klipgrab/klipgrab/internal/menu"
)

// AdminPanel shows the admin menu. The dispatch gate forwards the trigger
// caption for every sender, so the authorization check lives here.
func (h *Handlers) AdminPanel(msg bus.InboundMessage) {
	if !h.resolver.IsAdmin(msg.From) {
		h.reply(msg.Chat, adminsOnly)
		return
	}
	h.replyKeyboard(msg.Chat, menu.BtnAdminPanel, menu.AdminPanelKeyboard())
}

// Stats reports usage totals to an admin.
func (h *Handlers) Stats(msg bus.InboundMessage) {
	if !h.resolver.IsAdmin(msg.From) {
		h.reply(msg.Chat, adminsOnly)
		return
	}
	users, err := h.store.TotalUsers()
	if err == nil {
		var requests int64
		requests, err = h.store.TotalRequests()
		if err == nil {
			h.reply(msg.Chat, fmt.Sprintf(
				"📊 Statistics\n\n👥 Total users: %d\n📥 Total requests: %d",
				users, requests,
			))
			return
		}
	}
	slog.Error("stats query failed", "err", err)
	h.reply(msg.Chat, "Failed to retrieve statistics.")
}

// Top10 lists the ten most active users.
func (h *Handlers) Top10(msg bus.InboundMessage) {
	if !h.resolver.IsAdmin(msg.From) {
		h.reply(msg.Chat, adminsOnly)
		return
	}
	top, err := h.store.TopRequesters(10)
	if err != nil {
		slog.Error("top requesters query failed", "err", err)
		h.reply(msg.Chat, "Failed to retrieve top users.")
		return
	}
	var sb strings.Builder
	sb.WriteString("🏆 Top 10 Users\n\n")
	for i, uc := range top {
		fmt.Fprintf(&sb, "%d. User %d - %d requests\n", i+1, uc.User, uc.Count)
	}
	h.reply(msg.Chat, sb.String())
}

// AllUsers lists the most recently active users.
func (h *Handlers) AllUsers(msg bus.InboundMessage) {
	if !h.resolver.IsAdmin(msg.From) {
		h.reply(msg.Chat, adminsOnly)
		return
	}
	total, err := h.store.TotalUsers()
	if err != nil {
		slog.Error("user count query failed", "err", err)
		h.reply(msg.Chat, "Failed to retrieve users list.")
		return
	}
	users, err := h.store.RecentUsers(50)
	if err != nil {
		slog.Error("recent users query failed", "err", err)
		h.reply(msg.Chat, "Failed to retrieve users list.")
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 All Users - Total: %d\n\nShowing last 50:\n\n", total)
	for _, u := range users {
		fmt.Fprintf(&sb, "• User %d: %s\n", u.User, u.LastActive)
	}
	h.reply(msg.Chat, sb.String())
}
