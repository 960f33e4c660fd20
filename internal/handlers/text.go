package handlers

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/klipgrab/klipgrab/internal/bus"
	"github.com/klipgrab/klipgrab/internal/menu"
)

// Settings shows the settings menu. The admin panel entry is rendered
// only when the sender is an admin.
func (h *Handlers) Settings(msg bus.InboundMessage) {
	isAdmin := h.resolver.IsAdmin(msg.From)
	h.replyKeyboard(msg.Chat, menu.BtnSettings, menu.SettingsKeyboard(isAdmin))
}

// Format shows the output quality choices.
func (h *Handlers) Format(msg bus.InboundMessage) {
	text := "h265: best quality, but may not work on some devices.\n" +
		"h264: worse quality, but works on many devices.\n" +
		"audio: audio only"
	h.replyKeyboard(msg.Chat, text, menu.FormatKeyboard())
}

// Back returns the user to the main menu.
func (h *Handlers) Back(msg bus.InboundMessage) {
	h.replyKeyboard(msg.Chat, "Returning to main menu...", menu.MainKeyboard())
}

// Subscription lists the channels the user is asked to join.
func (h *Handlers) Subscription(msg bus.InboundMessage) {
	required, err := h.store.SubscriptionRequired()
	if err != nil {
		slog.Error("subscription setting read failed", "err", err)
		h.reply(msg.Chat, "Failed to read subscription settings.")
		return
	}
	if !required {
		h.reply(msg.Chat, "No subscription is required right now.")
		return
	}
	channels, err := h.store.ListChannels()
	if err != nil {
		slog.Error("channel list read failed", "err", err)
		h.reply(msg.Chat, "Failed to read subscription settings.")
		return
	}
	if len(channels) == 0 {
		h.reply(msg.Chat, "No subscription is required right now.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Please join these channels to use the bot:\n\n")
	for _, ch := range channels {
		fmt.Fprintf(&sb, "• %s\n", ch.Name)
	}
	h.reply(msg.Chat, sb.String())
}

// SetQuality stores the sender's quality preference.
func (h *Handlers) SetQuality(msg bus.InboundMessage, quality string) {
	if msg.From == nil {
		return
	}
	if err := h.store.SetQuality(*msg.From, quality); err != nil {
		slog.Error("failed to set quality", "user", *msg.From, "err", err)
		h.reply(msg.Chat, "Failed to save your preference.")
		return
	}
	h.replyKeyboard(msg.Chat, "Quality set to "+quality, menu.MainKeyboard())
}
