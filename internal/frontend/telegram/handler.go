package telegram

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/PickSomething/internal/card"
	"github.com/vadimtrunov/PickSomething/internal/core"
	"github.com/vadimtrunov/PickSomething/internal/session"
)

const (
	unauthorizedMsg = "Sorry, you are not authorized to use this bot."
	errorMsg        = "An error occurred while processing your request. Please try again."
	resetMsg        = "Session reset. Send a keyword to start over."
	welcomeMsg      = "What Should I Watch or Read?\n\n" +
		"Send me a keyword (e.g. sci-fi, thriller), then pick a category " +
		"to get a random movie, TV show, or book recommendation."

	categoryPrefix = "cat:"    // callback data prefix for category buttons
	anotherData    = "another" // callback data for the Get Another button
)

// handleMessage processes an incoming text message.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	b.logger.Debug("received message",
		slog.Int64("user_id", userID),
	)

	if !b.sessions.isAllowed(userID) {
		b.sendText(chatID, unauthorizedMsg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	// Handle slash commands.
	switch {
	case text == "/start" || text == "/help":
		b.sendText(chatID, welcomeMsg)
		return
	case text == "/reset":
		b.sessions.reset(chatID)
		b.sendText(chatID, resetMsg)
		return
	}

	sess := b.sessions.getOrCreate(chatID, b.newSession)
	if sess == nil {
		b.logger.Error("failed to create session", slog.Int64("chat_id", chatID))
		b.sendText(chatID, errorMsg)
		return
	}

	// "/movie dune" sets the keyword and picks in one step.
	if cat, keyword, ok := parseCategoryCommand(text); ok {
		if keyword != "" {
			sess.SetKeyword(keyword)
		}
		b.selectCategory(ctx, chatID, sess, cat)
		return
	}

	sess.SetKeyword(text)
	reply := tgbotapi.NewMessage(chatID, "Keyword: "+FormatBold(text)+"\nPick a category:")
	reply.ParseMode = tgbotapi.ModeMarkdownV2
	reply.ReplyMarkup = categoryKeyboard()
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Warn("failed to send markdown, retrying plain",
			slog.String("error", err.Error()),
		)
		b.sendPlainWithKeyboard(chatID, "Keyword: "+text+"\nPick a category:", categoryKeyboard())
	}
}

// parseCategoryCommand recognizes "/movie", "/tv" and "/book" with an optional keyword.
func parseCategoryCommand(text string) (core.Category, string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	name, rest, _ := strings.Cut(text[1:], " ")
	cat, err := core.ParseCategory(name)
	if err != nil {
		return "", "", false
	}
	return cat, strings.TrimSpace(rest), true
}

// handleCallback processes inline keyboard callback queries.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	b.logger.Debug("received callback",
		slog.Int64("user_id", userID),
		slog.String("data", cq.Data),
	)

	// Acknowledge the callback immediately.
	b.api.Request(tgbotapi.NewCallback(cq.ID, "")) //nolint:errcheck // best-effort ack

	if !b.sessions.isAllowed(userID) {
		return
	}

	sess := b.sessions.getOrCreate(chatID, b.newSession)
	if sess == nil {
		b.logger.Error("failed to create session", slog.Int64("chat_id", chatID))
		b.sendText(chatID, errorMsg)
		return
	}

	switch {
	case cq.Data == anotherData:
		// Typing is cosmetic; Another itself decides whether there is a pick to replace.
		if sess.Snapshot().State == session.StateResolved {
			b.sendTyping(chatID)
		}
		b.deliver(chatID, sess.Another(ctx))

	case strings.HasPrefix(cq.Data, categoryPrefix):
		cat, err := core.ParseCategory(strings.TrimPrefix(cq.Data, categoryPrefix))
		if err != nil {
			b.logger.Warn("unknown category in callback", slog.String("data", cq.Data))
			return
		}
		b.selectCategory(ctx, chatID, sess, cat)
	}
}

// selectCategory runs a search for cat and replies with the card or a notice.
func (b *Bot) selectCategory(ctx context.Context, chatID int64, sess *session.Session, cat core.Category) {
	if sess.CategoriesEnabled() {
		b.sendTyping(chatID)
	}
	b.deliver(chatID, sess.Select(ctx, cat))
}

// deliver sends the outcome's notice or card. Superseded outcomes send
// nothing: the newer search replies for itself.
func (b *Bot) deliver(chatID int64, out session.Outcome) {
	if !out.Applied {
		b.logger.Debug("skipping superseded search reply", slog.Int64("chat_id", chatID))
		return
	}
	if out.Notice != nil {
		b.sendText(chatID, out.Notice.Title+"\n"+out.Notice.Description)
		return
	}
	if out.Recommendation == nil {
		return
	}
	c, err := card.Build(out.Recommendation)
	if err != nil {
		b.logger.Error("build card", slog.String("error", err.Error()))
		b.sendText(chatID, errorMsg)
		return
	}
	b.sendCard(chatID, c)
}

// sendCard sends the card as a photo with a caption, falling back to text
// when Telegram cannot fetch the image.
func (b *Bot) sendCard(chatID int64, c card.Card) {
	kb := cardKeyboard(c)

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(c.ImageURL))
	photo.Caption = FormatCard(c)
	photo.ParseMode = tgbotapi.ModeMarkdownV2
	photo.ReplyMarkup = kb
	_, err := b.api.Send(photo)
	if err == nil {
		return
	}
	b.logger.Debug("failed to send card photo",
		slog.String("url", c.ImageURL),
		slog.String("error", err.Error()),
	)

	msg := tgbotapi.NewMessage(chatID, FormatCard(c))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send markdown, retrying plain",
			slog.String("error", err.Error()),
		)
		b.sendPlainWithKeyboard(chatID, FormatCardPlain(c), &kb)
	}
}

// categoryKeyboard builds one button per category.
func categoryKeyboard() *tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range core.Categories() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(categoryLabel(c), categoryPrefix+c.String()))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(row)
	return &kb
}

// cardKeyboard links to the card's pages and offers Get Another.
func cardKeyboard(c card.Card) tgbotapi.InlineKeyboardMarkup {
	links := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonURL(c.Primary.Label, c.Primary.URL),
	}
	if c.Secondary.URL != "" {
		links = append(links, tgbotapi.NewInlineKeyboardButtonURL(c.Secondary.Label, c.Secondary.URL))
	}
	if c.Primary.URL == "" {
		links = links[1:]
	}
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if len(links) > 0 {
		rows = append(rows, links)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎲 Get Another", anotherData),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func categoryLabel(c core.Category) string {
	switch c {
	case core.CategoryMovie:
		return "🎬 Movie"
	case core.CategoryTV:
		return "📺 TV"
	case core.CategoryBook:
		return "📖 Book"
	}
	return c.String()
}

// sendTyping shows the typing indicator while a search runs.
func (b *Bot) sendTyping(chatID int64) {
	b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)) //nolint:errcheck // best-effort typing indicator
}

// sendText sends a plain text message (no parse mode).
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// sendPlainWithKeyboard sends a plain-text message with inline keyboard.
func (b *Bot) sendPlainWithKeyboard(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message with keyboard",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}
