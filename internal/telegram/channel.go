// Package telegram adapts the Telegram Bot API to the bus message types.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/klipgrab/klipgrab/internal/bus"
	"github.com/klipgrab/klipgrab/internal/config"
	"github.com/klipgrab/klipgrab/internal/identity"
	"github.com/klipgrab/klipgrab/internal/menu"
)

// Channel runs the Telegram bot via long polling.
type Channel struct {
	cfg *config.Config
	b   *bus.MessageBus
	bot *tgbotapi.BotAPI
}

// NewChannel creates a Channel.
func NewChannel(cfg *config.Config, b *bus.MessageBus) *Channel {
	return &Channel{cfg: cfg, b: b}
}

// Start connects and runs the update loop until ctx is cancelled.
func (t *Channel) Start(ctx context.Context) error {
	token := t.cfg.BotToken()
	if token == "" {
		return fmt.Errorf("telegram: bot token not configured")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}
	t.bot = bot
	slog.Info("telegram: connected", "username", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = t.cfg.Telegram.PollTimeout
	updates := bot.GetUpdatesChan(u)

	go t.sendLoop(ctx)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(update)
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (t *Channel) handleUpdate(update tgbotapi.Update) {
	if q := update.CallbackQuery; q != nil {
		if q.Message == nil {
			return
		}
		from := identity.UserID(q.From.ID)
		t.b.PublishInbound(bus.InboundMessage{
			From:         &from,
			Chat:         identity.ChatID(q.Message.Chat.ID),
			MessageID:    q.Message.MessageID,
			Received:     time.Now(),
			CallbackID:   q.ID,
			CallbackData: q.Data,
		})
		return
	}

	m := update.Message
	if m == nil {
		return
	}

	msg := bus.InboundMessage{
		Chat:      identity.ChatID(m.Chat.ID),
		Text:      m.Text,
		MessageID: m.MessageID,
		Received:  time.Now(),
	}
	// Channel posts arrive without an author. From stays nil so the
	// resolver fails closed.
	if m.From != nil {
		from := identity.UserID(m.From.ID)
		msg.From = &from
	}
	t.b.PublishInbound(msg)
}

// sendLoop delivers outbound messages until ctx is cancelled.
func (t *Channel) sendLoop(ctx context.Context) {
	for {
		select {
		case msg := <-t.b.Outbound():
			t.send(msg)
		case <-ctx.Done():
			return
		}
	}
}

func (t *Channel) send(msg bus.OutboundMessage) {
	if msg.AnswerCallback != "" {
		cb := tgbotapi.NewCallback(msg.AnswerCallback, msg.CallbackText)
		if _, err := t.bot.Request(cb); err != nil {
			slog.Error("telegram: answer callback failed", "err", err)
		}
	}
	if msg.Text == "" {
		return
	}

	m := tgbotapi.NewMessage(int64(msg.Chat), msg.Text)
	if msg.HTML {
		m.ParseMode = tgbotapi.ModeHTML
	}
	if msg.ReplyTo != 0 && t.cfg.Telegram.ReplyToMessage {
		m.ReplyToMessageID = msg.ReplyTo
	}
	// An inline keyboard wins when both are set; Telegram only carries one
	// reply markup per message.
	switch {
	case len(msg.Inline) > 0:
		m.ReplyMarkup = inlineKeyboard(msg.Inline)
	case msg.Keyboard != nil:
		m.ReplyMarkup = replyKeyboard(*msg.Keyboard)
	}

	if _, err := t.bot.Send(m); err != nil {
		if msg.HTML {
			// Bad markup in user-provided HTML; retry as plain text.
			m.ParseMode = ""
			if _, err2 := t.bot.Send(m); err2 == nil {
				return
			}
		}
		slog.Error("telegram: send failed", "chat", msg.Chat, "err", err)
	}
}

func replyKeyboard(k menu.Keyboard) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(k.Rows))
	for _, row := range k.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, buttons)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = k.Resize
	return kb
}

func inlineKeyboard(rows [][]bus.InlineButton) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		out = append(out, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}
