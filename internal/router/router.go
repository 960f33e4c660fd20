// Package router composes the identity resolver, button classifier, and
// dispatch gate into the bot's message loop.
package router

import (
	"context"
	"log/slog"

	"github.com/klipgrab/klipgrab/internal/bus"
	"github.com/klipgrab/klipgrab/internal/dispatch"
	"github.com/klipgrab/klipgrab/internal/handlers"
	"github.com/klipgrab/klipgrab/internal/menu"
)

// Router consumes inbound messages and routes each one to a handler.
//
// Routing order mirrors the original menu design: an in-progress broadcast
// dialogue owns its chat, then slash commands, then the dedicated
// menu-button routes, and finally the dispatch gate as the closing filter.
// The admin panel trigger has no dedicated route on purpose: it reaches
// its handler through the gate's pass-through rule, for any sender.
type Router struct {
	bus     *bus.MessageBus
	gate    *dispatch.Gate
	h       *handlers.Handlers
	buttons map[string]func(bus.InboundMessage)
}

// New creates a Router over the given bus, gate, and handlers.
func New(b *bus.MessageBus, gate *dispatch.Gate, h *handlers.Handlers) *Router {
	r := &Router{bus: b, gate: gate, h: h}
	r.buttons = map[string]func(bus.InboundMessage){
		menu.BtnSettings:     h.Settings,
		menu.BtnFormat:       h.Format,
		menu.BtnSubscription: h.Subscription,
		menu.BtnBack:         h.Back,
		menu.BtnStats:        h.Stats,
		menu.BtnTop10:        h.Top10,
		menu.BtnAllUsers:     h.AllUsers,
		menu.BtnBroadcast:    h.StartBroadcast,
		menu.BtnH265:         func(m bus.InboundMessage) { h.SetQuality(m, "h265") },
		menu.BtnH264:         func(m bus.InboundMessage) { h.SetQuality(m, "h264") },
		menu.BtnAudio:        func(m bus.InboundMessage) { h.SetQuality(m, "audio") },
	}
	return r
}

// Run consumes the inbound bus until ctx is cancelled.
func (r *Router) Run(ctx context.Context) error {
	for {
		select {
		case msg := <-r.bus.Inbound():
			r.dispatch(msg)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Router) dispatch(msg bus.InboundMessage) {
	if msg.IsCallback() {
		r.h.Callback(msg)
		return
	}
	// An open broadcast dialogue owns the chat until finished.
	if r.h.BroadcastInProgress(msg.Chat) {
		r.h.ContinueBroadcast(msg)
		return
	}
	if r.h.Command(msg) {
		return
	}
	if fn, ok := r.buttons[msg.Text]; ok {
		fn(msg)
		return
	}

	switch outcome := r.gate.Route(msg.Text); outcome {
	case dispatch.AdminPanel:
		// Passes for any sender; the panel handler re-checks authorization.
		r.h.AdminPanel(msg)
	case dispatch.Suppressed:
		slog.Debug("reserved caption suppressed", "chat", msg.Chat, "text", msg.Preview())
	default:
		r.h.Default(msg)
	}
}
