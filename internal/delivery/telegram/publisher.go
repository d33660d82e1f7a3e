// Package telegram shares rendered wallpapers to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/kural-wallpaper/internal/domain/entities"
)

// maxCaptionRunes is the Telegram limit for media captions.
const maxCaptionRunes = 1024

// Sender is the part of tgbotapi.BotAPI used by the publisher.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Publisher struct {
	bot    Sender
	chatID int64
	title  string
	logger *zap.Logger
}

func NewPublisher(bot Sender, chatID int64, title string, logger *zap.Logger) *Publisher {
	return &Publisher{
		bot:    bot,
		chatID: chatID,
		title:  title,
		logger: logger,
	}
}

// Publish sends the wallpaper image with the verse as its caption.
func (p *Publisher) Publish(ctx context.Context, w *entities.Wallpaper) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FilePath(w.Path))
	photo.Caption = buildCaption(p.title, w.Verse)
	photo.ParseMode = tgbotapi.ModeHTML

	msg, err := p.bot.Send(photo)
	if err != nil {
		return fmt.Errorf("send photo to chat %d: %w", p.chatID, err)
	}

	p.logger.Info("wallpaper published",
		zap.Int64("chat_id", p.chatID),
		zap.Int("message_id", msg.MessageID),
		zap.Int("kural_no", w.Verse.Number),
	)
	return nil
}

// buildCaption renders the verse as an HTML caption of at most
// maxCaptionRunes runes. Parts are added in order and the first one that
// does not fit is cut, so tags are always closed.
func buildCaption(title string, v *entities.Verse) string {
	var (
		b    strings.Builder
		room = maxCaptionRunes
	)
	add := func(open, text, close string) {
		overhead := utf8.RuneCountInString(open) + utf8.RuneCountInString(close)
		avail := room - overhead
		if avail <= 0 || text == "" {
			return
		}
		if utf8.RuneCountInString(text) > avail {
			text = cutRunes(text, avail-1) + "…"
		}
		b.WriteString(open)
		b.WriteString(text)
		b.WriteString(close)
		room -= overhead + utf8.RuneCountInString(text)
	}

	add("<b>", html.EscapeString(fmt.Sprintf("%s %d", title, v.Number)), "</b>")
	if v.Chapter != "" {
		add("", " • "+html.EscapeString(v.Chapter), "")
	}

	lines := make([]string, 0, 2)
	for _, l := range v.Lines() {
		lines = append(lines, html.EscapeString(l))
	}
	add("\n\n<i>", strings.Join(lines, "\n"), "</i>")
	add("\n\n", html.EscapeString(v.Explanation), "")

	return b.String()
}

// cutRunes keeps the first n runes of s without splitting an HTML entity.
func cutRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	out := string(r[:n])
	if amp := strings.LastIndex(out, "&"); amp >= 0 && !strings.Contains(out[amp:], ";") {
		out = out[:amp]
	}
	return out
}
