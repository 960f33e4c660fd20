package handlers

import (
	"strings"
	"sync"
	"testing"

	"github.com/klipgrab/klipgrab/internal/bus"
	"github.com/klipgrab/klipgrab/internal/identity"
	"github.com/klipgrab/klipgrab/internal/menu"
	"github.com/klipgrab/klipgrab/internal/store"
)

// capture collects outbound messages for assertions.
type capture struct {
	mu   sync.Mutex
	msgs []bus.OutboundMessage
}

func (c *capture) PublishOutbound(m bus.OutboundMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, m)
}

func (c *capture) all() []bus.OutboundMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]bus.OutboundMessage(nil), c.msgs...)
}

func (c *capture) last(t *testing.T) bus.OutboundMessage {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.msgs) == 0 {
		t.Fatal("no outbound messages captured")
	}
	return c.msgs[len(c.msgs)-1]
}

func newTestHandlers(t *testing.T, adminIDs string) (*Handlers, *capture, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	out := &capture{}
	h := New(st, identity.NewResolver(identity.ParseAllowList(adminIDs)), out)
	return h, out, st
}

func from(id identity.UserID) *identity.UserID { return &id }

func msgFrom(id identity.UserID, chat identity.ChatID, text string) bus.InboundMessage {
	return bus.InboundMessage{From: from(id), Chat: chat, Text: text}
}

func TestAdminPanel_DeniesNonAdmin(t *testing.T) {
	h, out, _ := newTestHandlers(t, "1000")

	h.AdminPanel(msgFrom(2000, 2000, menu.BtnAdminPanel))
	if got := out.last(t).Text; got != adminsOnly {
		t.Errorf("expected denial, got %q", got)
	}
}

func TestAdminPanel_ShowsMenuForAdmin(t *testing.T) {
	h, out, _ := newTestHandlers(t, "1000")

	h.AdminPanel(msgFrom(1000, 1000, menu.BtnAdminPanel))
	reply := out.last(t)
	if reply.Keyboard == nil {
		t.Fatal("expected admin panel keyboard")
	}
	if reply.Text != menu.BtnAdminPanel {
		t.Errorf("unexpected panel caption %q", reply.Text)
	}
}

func TestAdminPanel_DeniesSenderlessMessage(t *testing.T) {
	h, out, _ := newTestHandlers(t, "1000")

	h.AdminPanel(bus.InboundMessage{Chat: 1000, Text: menu.BtnAdminPanel})
	if got := out.last(t).Text; got != adminsOnly {
		t.Errorf("expected denial for senderless message, got %q", got)
	}
}

func TestStats_AdminGetsTotals(t *testing.T) {
	h, out, st := newTestHandlers(t, "1000")
	if err := st.Touch(5); err != nil {
		t.Fatal(err)
	}
	if err := st.RecordRequest(5, "x"); err != nil {
		t.Fatal(err)
	}

	h.Stats(msgFrom(1000, 1000, menu.BtnStats))
	text := out.last(t).Text
	if !strings.Contains(text, "Total users: 1") || !strings.Contains(text, "Total requests: 1") {
		t.Errorf("unexpected stats reply: %q", text)
	}
}

func TestSettings_AdminRowOnlyForAdmins(t *testing.T) {
	h, out, _ := newTestHandlers(t, "1000")

	h.Settings(msgFrom(2000, 2000, menu.BtnSettings))
	kb := out.last(t).Keyboard
	if kb == nil {
		t.Fatal("expected settings keyboard")
	}
	for _, row := range kb.Rows {
		for _, label := range row {
			if label == menu.BtnAdminPanel {
				t.Error("non-admin keyboard must not contain the admin panel entry")
			}
		}
	}

	h.Settings(msgFrom(1000, 1000, menu.BtnSettings))
	kb = out.last(t).Keyboard
	found := false
	for _, row := range kb.Rows {
		for _, label := range row {
			if label == menu.BtnAdminPanel {
				found = true
			}
		}
	}
	if !found {
		t.Error("admin keyboard must contain the admin panel entry")
	}
}

func TestSetQuality_Persists(t *testing.T) {
	h, _, st := newTestHandlers(t, "")

	h.SetQuality(msgFrom(7, 7, menu.BtnAudio), "audio")
	q, err := st.Quality(7)
	if err != nil {
		t.Fatal(err)
	}
	if q != "audio" {
		t.Errorf("expected audio, got %q", q)
	}
}

func TestCommand_NonCommandText(t *testing.T) {
	h, _, _ := newTestHandlers(t, "")
	if h.Command(msgFrom(7, 7, "hello")) {
		t.Error("plain text must not be treated as a command")
	}
}

func TestCommand_ToggleSubscription(t *testing.T) {
	h, out, _ := newTestHandlers(t, "1000")

	if !h.Command(msgFrom(2000, 2000, "/togglesubscription")) {
		t.Fatal("expected command to be handled")
	}
	if got := out.last(t).Text; got != commandAdminsOnly {
		t.Errorf("expected denial, got %q", got)
	}

	if !h.Command(msgFrom(1000, 1000, "/togglesubscription")) {
		t.Fatal("expected command to be handled")
	}
	if got := out.last(t).Text; !strings.Contains(got, "disabled") {
		t.Errorf("expected first toggle to disable, got %q", got)
	}
}

func TestCommand_ChannelManagement(t *testing.T) {
	h, out, st := newTestHandlers(t, "1000")
	admin := msgFrom(1000, 1000, "")

	admin.Text = "/addchannel -100123,news channel"
	h.Command(admin)
	if got := out.last(t).Text; !strings.Contains(got, "added") {
		t.Fatalf("expected add confirmation, got %q", got)
	}
	chs, err := st.ListChannels()
	if err != nil {
		t.Fatal(err)
	}
	if len(chs) != 1 || chs[0].Name != "news channel" {
		t.Fatalf("unexpected channels: %+v", chs)
	}

	admin.Text = "/addchannel banana"
	h.Command(admin)
	if got := out.last(t).Text; !strings.Contains(got, "Usage") {
		t.Errorf("expected usage hint, got %q", got)
	}

	admin.Text = "/delchannel -100123"
	h.Command(admin)
	chs, err = st.ListChannels()
	if err != nil {
		t.Fatal(err)
	}
	if len(chs) != 0 {
		t.Errorf("expected channel deleted, got %+v", chs)
	}
}

func TestCommand_UsernameSuffix(t *testing.T) {
	h, out, _ := newTestHandlers(t, "")

	h.Command(msgFrom(7, 7, "/help@klipgrab_bot"))
	if got := out.last(t).Text; !strings.Contains(got, "/start") {
		t.Errorf("expected help text, got %q", got)
	}
}

func TestDefault_RecordsRequest(t *testing.T) {
	h, out, st := newTestHandlers(t, "")

	h.Default(msgFrom(7, 7, "https://example.com/v/1"))
	if got := out.last(t).Text; !strings.Contains(got, "received") {
		t.Errorf("expected acknowledgement, got %q", got)
	}
	n, err := st.TotalRequests()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 recorded request, got %d", n)
	}
}

func TestBroadcast_Dialogue(t *testing.T) {
	h, out, _ := newTestHandlers(t, "1000")
	admin := identity.UserID(1000)
	chat := identity.ChatID(1000)

	// Non-admin cannot start.
	h.StartBroadcast(msgFrom(2000, 2000, menu.BtnBroadcast))
	if h.BroadcastInProgress(2000) {
		t.Fatal("non-admin must not open a broadcast dialogue")
	}

	h.StartBroadcast(bus.InboundMessage{From: &admin, Chat: chat, Text: menu.BtnBroadcast})
	if !h.BroadcastInProgress(chat) {
		t.Fatal("expected broadcast dialogue to be open")
	}

	h.ContinueBroadcast(bus.InboundMessage{From: &admin, Chat: chat, Text: "<b>hello all</b>"})
	msgs := out.all()
	lastTwo := msgs[len(msgs)-2:]
	if !lastTwo[0].HTML || lastTwo[0].Text != "<b>hello all</b>" {
		t.Errorf("expected HTML preview, got %+v", lastTwo[0])
	}
	if len(lastTwo[1].Inline) == 0 {
		t.Error("expected confirm/cancel inline buttons")
	}

	// /cancel aborts at any point.
	h.ContinueBroadcast(bus.InboundMessage{From: &admin, Chat: chat, Text: "/cancel"})
	if h.BroadcastInProgress(chat) {
		t.Error("expected dialogue closed after /cancel")
	}
}

func TestBroadcast_FanOut(t *testing.T) {
	h, out, st := newTestHandlers(t, "1000")
	for _, id := range []identity.UserID{1, 2, 3} {
		if err := st.Touch(id); err != nil {
			t.Fatal(err)
		}
	}

	h.runBroadcast(1000, "announcement")

	var delivered int
	var report bool
	for _, m := range out.all() {
		if m.Text == "announcement" {
			delivered++
		}
		if strings.Contains(m.Text, "Broadcast completed") {
			report = true
		}
	}
	if delivered != 3 {
		t.Errorf("expected 3 deliveries, got %d", delivered)
	}
	if !report {
		t.Error("expected completion report")
	}
}
