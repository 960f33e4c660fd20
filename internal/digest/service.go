// Package digest sends a periodic activity summary to the bot admins.
package digest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/klipgrab/klipgrab/internal/bus"
	"github.com/klipgrab/klipgrab/internal/identity"
	"github.com/klipgrab/klipgrab/internal/store"
)

// Publisher is the outbound side of the message bus.
type Publisher interface {
	PublishOutbound(bus.OutboundMessage)
}

// Service runs the digest on a cron schedule.
type Service struct {
	store    *store.Store
	out      Publisher
	admins   []identity.UserID
	schedule string
}

// NewService creates a digest Service. admins receives the summary in
// their direct chats.
func NewService(st *store.Store, out Publisher, admins identity.AllowList, schedule string) *Service {
	return &Service{
		store:    st,
		out:      out,
		admins:   admins.IDs(),
		schedule: schedule,
	}
}

// Start arms the schedule and blocks until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	if len(s.admins) == 0 {
		slog.Info("digest disabled: no admins configured")
		<-ctx.Done()
		return ctx.Err()
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("digest schedule %q: %w", s.schedule, err)
	}
	c.Start()
	slog.Info("digest armed", "schedule", s.schedule, "admins", len(s.admins))

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	return ctx.Err()
}

// run builds one summary and delivers it to every admin.
func (s *Service) run() {
	users, err := s.store.TotalUsers()
	if err != nil {
		slog.Error("digest: user count failed", "err", err)
		return
	}
	requests, err := s.store.TotalRequests()
	if err != nil {
		slog.Error("digest: request count failed", "err", err)
		return
	}

	text := fmt.Sprintf("📊 Daily digest\n\n👥 Users: %d\n📥 Requests: %d", users, requests)
	for _, admin := range s.admins {
		s.out.PublishOutbound(bus.OutboundMessage{
			Chat: identity.DirectChat(admin),
			Text: text,
		})
	}
}
