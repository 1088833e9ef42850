// Package telegram is the Telegram frontend: the user sends a keyword, picks
// a category from an inline keyboard, and gets a recommendation card back.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/PickSomething/internal/session"
)

// sender is the subset of the Bot API used to talk to chats.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SessionFactory creates a fresh page session for a chat.
type SessionFactory func() *session.Session

// Bot is the Telegram frontend for PickSomething.
type Bot struct {
	client     *tgbotapi.BotAPI
	api        sender
	sessions   *sessionManager
	newSession SessionFactory
	logger     *slog.Logger
}

var _ sender = (*tgbotapi.BotAPI)(nil)

// New creates a new Telegram Bot.
func New(token string, allowedUserIDs []int64, factory SessionFactory, logger *slog.Logger) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	b := newBot(client, allowedUserIDs, factory, logger)
	b.client = client
	return b, nil
}

func newBot(api sender, allowedUserIDs []int64, factory SessionFactory, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:        api,
		sessions:   newSessionManager(allowedUserIDs),
		newSession: factory,
		logger:     logger,
	}
}

// Name returns the frontend name.
func (b *Bot) Name() string { return "telegram" }

// Start starts the long-polling loop. It blocks until ctx is canceled.
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return fmt.Errorf("telegram bot has no API client")
	}
	b.logger.Info("telegram bot started",
		slog.String("username", b.client.Self.UserName),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.client.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			b.logger.Info("telegram bot stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate dispatches an incoming Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}
