package telegram

import (
	"strings"

	"github.com/vadimtrunov/PickSomething/internal/card"
)

// mdV2Replacer escapes special characters for Telegram MarkdownV2.
var mdV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMdV2 escapes a string for safe use in Telegram MarkdownV2.
func EscapeMdV2(s string) string {
	return mdV2Replacer.Replace(s)
}

// FormatBold returns MarkdownV2 bold text.
func FormatBold(s string) string {
	return "*" + EscapeMdV2(s) + "*"
}

// FormatItalic returns MarkdownV2 italic text.
func FormatItalic(s string) string {
	return "_" + EscapeMdV2(s) + "_"
}

// FormatCard renders a card as a MarkdownV2 caption.
func FormatCard(c card.Card) string {
	var sb strings.Builder
	sb.WriteString(FormatBold(c.Title))
	sb.WriteString("\n")
	for _, d := range c.Details {
		sb.WriteString(FormatItalic(d.Label+":") + " " + EscapeMdV2(d.Value) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(EscapeMdV2(c.Description))
	return sb.String()
}

// FormatCardPlain renders a card without markup.
func FormatCardPlain(c card.Card) string {
	var sb strings.Builder
	sb.WriteString(c.Title + "\n")
	for _, d := range c.Details {
		sb.WriteString(d.String() + "\n")
	}
	sb.WriteString("\n" + c.Description)
	return sb.String()
}
