package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/kural-wallpaper/internal/domain/entities"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func testVerse() *entities.Verse {
	return &entities.Verse{
		Number:      1,
		Tamil:       "அகர முதல எழுத்தெல்லாம் ஆதி\nபகவன் முதற்றே உலகு",
		Explanation: "As the letter A is the first of all letters, so the eternal God is first in the world.",
		Chapter:     "The Praise of God",
	}
}

func TestPublisher_Publish(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, 42, "THIRUKKURAL", zap.NewNop())

	w := &entities.Wallpaper{Verse: testVerse(), Path: "/tmp/wallpaper_2024-06-01.png"}
	require.NoError(t, p.Publish(context.Background(), w))
	require.Len(t, sender.sent, 1)

	photo, ok := sender.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), photo.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, photo.ParseMode)
	assert.Equal(t, tgbotapi.FilePath(w.Path), photo.File)
	assert.Contains(t, photo.Caption, "<b>THIRUKKURAL 1</b> • The Praise of God")
	assert.Contains(t, photo.Caption, "அகர முதல எழுத்தெல்லாம் ஆதி\nபகவன் முதற்றே உலகு")
}

func TestPublisher_Publish_SendError(t *testing.T) {
	sendErr := errors.New("bad gateway")
	p := NewPublisher(&fakeSender{err: sendErr}, 42, "THIRUKKURAL", zap.NewNop())

	err := p.Publish(context.Background(), &entities.Wallpaper{Verse: testVerse(), Path: "/tmp/x.png"})
	require.ErrorIs(t, err, sendErr)
}

func TestPublisher_Publish_CanceledContext(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, 42, "THIRUKKURAL", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, &entities.Wallpaper{Verse: testVerse(), Path: "/tmp/x.png"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sender.sent)
}

func TestBuildCaption(t *testing.T) {
	t.Run("escapes html", func(t *testing.T) {
		v := testVerse()
		v.Explanation = "a < b & c"

		caption := buildCaption("THIRUKKURAL", v)
		assert.True(t, strings.HasSuffix(caption, "a &lt; b &amp; c"))
	})

	t.Run("long explanation is cut to the caption limit", func(t *testing.T) {
		v := testVerse()
		v.Explanation = strings.Repeat("word & ", 400)

		caption := buildCaption("THIRUKKURAL", v)
		assert.LessOrEqual(t, utf8.RuneCountInString(caption), maxCaptionRunes)
		assert.True(t, strings.HasSuffix(caption, "…"))
		assert.NotContains(t, caption[len(caption)-10:], "&amp…")
	})

	t.Run("long couplet keeps the caption within the limit", func(t *testing.T) {
		v := testVerse()
		v.Tamil = ""
		v.Bamini1 = strings.Repeat("mfu KjP ", 100)
		v.Bamini2 = strings.Repeat("vOj;njy;yhk; ", 100)

		caption := buildCaption("THIRUKKURAL", v)
		assert.LessOrEqual(t, utf8.RuneCountInString(caption), maxCaptionRunes)
		assert.True(t, strings.HasPrefix(caption, "<b>THIRUKKURAL 1</b>"))
		assert.True(t, strings.HasSuffix(caption, "…</i>"))
		assert.Equal(t, strings.Count(caption, "<i>"), strings.Count(caption, "</i>"))
		assert.NotContains(t, caption, v.Explanation)
	})

	t.Run("long title is cut with balanced tags", func(t *testing.T) {
		v := testVerse()

		caption := buildCaption(strings.Repeat("T", 2000), v)
		assert.LessOrEqual(t, utf8.RuneCountInString(caption), maxCaptionRunes)
		assert.True(t, strings.HasSuffix(caption, "…</b>"))
	})
}
