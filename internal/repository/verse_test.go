package repository

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thirukural.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func feature(no int, tamil, explanation string) string {
	return fmt.Sprintf(`{"type":"Feature","properties":{"kural_no":%d,"kural_tamil1":%q,"kuralvilakam_english":%q,"adhikarm_english":"Learning"}}`,
		no, tamil, explanation)
}

func collection(features ...string) string {
	return `{"type":"FeatureCollection","features":[` + strings.Join(features, ",") + `]}`
}

func TestNewVerseRepository(t *testing.T) {
	path := writeFile(t, collection(
		feature(391, "கற்க கசடறக் கற்பவை கற்றபின்\nநிற்க அதற்குத் தக", "Learn thoroughly."),
		feature(396, "தொட்டனைத் தூறும் மணற்கேணி மாந்தர்க்குக்\nகற்றனைத் தூறும் அறிவு", "Dig deeper."),
	))

	repo, err := NewVerseRepository(path)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Count())

	v, err := repo.GetByNumber(context.Background(), 396)
	require.NoError(t, err)
	assert.Equal(t, "Dig deeper.", v.Explanation)
	assert.Equal(t, "Learning", v.Chapter)
	assert.Len(t, v.Lines(), 2)
}

func TestNewVerseRepository_ShippedDataset(t *testing.T) {
	repo, err := NewVerseRepository(filepath.Join("..", "..", "assets", "data", "thirukural.json"))
	require.NoError(t, err)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, all)
	for _, v := range all {
		assert.Len(t, v.Lines(), 2, "kural %d", v.Number)
	}
}

func TestNewVerseRepository_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "empty features",
			content: `{"features":[]}`,
			wantErr: ErrEmptyCollection,
		},
		{
			name:    "no features key",
			content: `{}`,
			wantErr: ErrEmptyCollection,
		},
		{
			name:    "missing properties",
			content: `{"features":[{"type":"Feature"}]}`,
			wantErr: ErrMalformedVerse,
		},
		{
			name:    "missing number",
			content: collection(feature(0, "a\nb", "text")),
			wantErr: ErrMalformedVerse,
		},
		{
			name:    "missing explanation",
			content: collection(feature(1, "a\nb", "  ")),
			wantErr: ErrMalformedVerse,
		},
		{
			name:    "missing original text",
			content: collection(feature(1, "", "text")),
			wantErr: ErrMalformedVerse,
		},
		{
			name:    "duplicate number",
			content: collection(feature(1, "a\nb", "text"), feature(1, "c\nd", "other")),
			wantErr: ErrMalformedVerse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVerseRepository(writeFile(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("corrupt json", func(t *testing.T) {
		_, err := NewVerseRepository(writeFile(t, `{"features":[`))
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewVerseRepository(filepath.Join(t.TempDir(), "nope.json"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestVerseRepository_GetRandom(t *testing.T) {
	path := writeFile(t, collection(
		feature(1, "a\nb", "one"),
		feature(2, "c\nd", "two"),
		feature(3, "e\nf", "three"),
	))

	repo, err := NewVerseRepository(path, WithRand(rand.New(rand.NewSource(7))))
	require.NoError(t, err)

	seen := make(map[int]int)
	for i := 0; i < 300; i++ {
		v, err := repo.GetRandom(context.Background())
		require.NoError(t, err)

		member, err := repo.GetByNumber(context.Background(), v.Number)
		require.NoError(t, err)
		assert.Same(t, member, v)
		seen[v.Number]++
	}

	// Every record is reachable.
	assert.Len(t, seen, 3)
}

func TestVerseRepository_GetRandom_Empty(t *testing.T) {
	repo := newVerseRepository(nil)

	_, err := repo.GetRandom(context.Background())
	require.ErrorIs(t, err, ErrEmptyCollection)
}

func TestVerseRepository_GetByNumber_NotFound(t *testing.T) {
	repo, err := NewVerseRepository(writeFile(t, collection(feature(1, "a\nb", "one"))))
	require.NoError(t, err)

	_, err = repo.GetByNumber(context.Background(), 1330)
	require.ErrorIs(t, err, ErrVerseNotFound)
}

func TestNewVerseRepository_NormalizesText(t *testing.T) {
	// "கொ" written as consonant + two-part vowel sign components.
	decomposed := "\u0b95\u0bc6\u0bbe"
	repo, err := NewVerseRepository(writeFile(t, collection(feature(1, decomposed+"\nb", "one\r\ntwo"))))
	require.NoError(t, err)

	v, err := repo.GetByNumber(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "\u0b95\u0bca", v.Lines()[0])
	assert.Equal(t, "one\ntwo", v.Explanation)
}
