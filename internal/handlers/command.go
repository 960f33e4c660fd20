package handlers

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/klipgrab/klipgrab/internal/bus"
	"github.com/klipgrab/klipgrab/internal/identity"
	"github.com/klipgrab/klipgrab/internal/menu"
)

const commandAdminsOnly = "❌ This command is for admins only."

const helpText = `These commands are supported:
/start — start the bot
/help — display this text`

const adminHelpText = `
Admin commands:
/addchannel <id>,<name> — add a subscription channel
/delchannel <id> — delete a subscription channel
/listchannels — list all subscription channels
/togglesubscription — toggle mandatory subscription`

// Command handles slash commands. Returns false when the text is not a
// command so the caller can keep routing.
func (h *Handlers) Command(msg bus.InboundMessage) bool {
	if !strings.HasPrefix(msg.Text, "/") {
		return false
	}
	fields := strings.Fields(msg.Text)
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	// In groups commands carry the bot's username: /start@klipgrab_bot.
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}
	args := strings.TrimSpace(strings.TrimPrefix(msg.Text, fields[0]))

	switch name {
	case "start":
		h.startCommand(msg)
	case "help":
		h.helpCommand(msg)
	case "cancel":
		h.reply(msg.Chat, "Nothing to cancel.")
	case "addchannel":
		h.addChannelCommand(msg, args)
	case "delchannel":
		h.delChannelCommand(msg, args)
	case "listchannels":
		h.listChannelsCommand(msg)
	case "togglesubscription":
		h.toggleSubscriptionCommand(msg)
	default:
		h.reply(msg.Chat, "Unknown command. Try /help.")
	}
	return true
}

func (h *Handlers) startCommand(msg bus.InboundMessage) {
	h.touch(msg)
	h.out.PublishOutbound(bus.OutboundMessage{
		Chat: msg.Chat,
		Text: "Welcome! Send me a link and I'll take care of the rest.",
		Inline: [][]bus.InlineButton{{
			{Label: menu.BtnSettings, Data: "settings"},
		}},
	})
}

func (h *Handlers) helpCommand(msg bus.InboundMessage) {
	text := helpText
	if h.resolver.IsAdmin(msg.From) {
		text += "\n" + adminHelpText
	}
	h.reply(msg.Chat, text)
}

func (h *Handlers) addChannelCommand(msg bus.InboundMessage, args string) {
	if !h.resolver.IsAdmin(msg.From) {
		h.reply(msg.Chat, commandAdminsOnly)
		return
	}
	idStr, name, ok := strings.Cut(args, ",")
	if !ok || strings.TrimSpace(name) == "" {
		h.reply(msg.Chat, "Usage: /addchannel <id>,<name>")
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
	if err != nil {
		h.reply(msg.Chat, "Usage: /addchannel <id>,<name>")
		return
	}
	name = strings.TrimSpace(name)
	if err := h.store.AddChannel(identity.ChatID(id), name); err != nil {
		slog.Error("add channel failed", "channel", id, "err", err)
		h.reply(msg.Chat, "Failed to add channel.")
		return
	}
	h.reply(msg.Chat, fmt.Sprintf("✅ Channel %s (%d) added.", name, id))
}

func (h *Handlers) delChannelCommand(msg bus.InboundMessage, args string) {
	if !h.resolver.IsAdmin(msg.From) {
		h.reply(msg.Chat, commandAdminsOnly)
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		h.reply(msg.Chat, "Usage: /delchannel <id>")
		return
	}
	if err := h.store.DeleteChannel(identity.ChatID(id)); err != nil {
		slog.Error("delete channel failed", "channel", id, "err", err)
		h.reply(msg.Chat, "Failed to delete channel.")
		return
	}
	h.reply(msg.Chat, fmt.Sprintf("✅ Channel %d deleted.", id))
}

func (h *Handlers) listChannelsCommand(msg bus.InboundMessage) {
	if !h.resolver.IsAdmin(msg.From) {
		h.reply(msg.Chat, commandAdminsOnly)
		return
	}
	channels, err := h.store.ListChannels()
	if err != nil {
		slog.Error("list channels failed", "err", err)
		h.reply(msg.Chat, "Failed to list channels.")
		return
	}
	if len(channels) == 0 {
		h.reply(msg.Chat, "No subscription channels configured.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Subscription channels:\n")
	for _, ch := range channels {
		fmt.Fprintf(&sb, "• %s (%d)\n", ch.Name, ch.ID)
	}
	h.reply(msg.Chat, sb.String())
}

func (h *Handlers) toggleSubscriptionCommand(msg bus.InboundMessage) {
	if !h.resolver.IsAdmin(msg.From) {
		h.reply(msg.Chat, commandAdminsOnly)
		return
	}
	enabled, err := h.store.ToggleSubscription()
	if err != nil {
		slog.Error("toggle subscription failed", "err", err)
		h.reply(msg.Chat, "Failed to toggle subscription setting.")
		return
	}
	status := "disabled"
	if enabled {
		status = "enabled"
	}
	h.reply(msg.Chat, "✅ Mandatory subscription is now "+status)
}
