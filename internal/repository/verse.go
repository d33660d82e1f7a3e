package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/aliskhannn/kural-wallpaper/internal/domain/entities"
)

var (
	ErrVerseNotFound   = errors.New("verse not found")
	ErrEmptyCollection = errors.New("verse collection is empty")
	ErrMalformedVerse  = errors.New("malformed verse record")
)

// VerseRepository provides access to the verse collection.
// The whole dataset is loaded into memory once and never mutated.
type VerseRepository struct {
	verses   []*entities.Verse
	byNumber map[int]*entities.Verse
	rng      *rand.Rand
}

// Option configures a VerseRepository.
type Option func(*VerseRepository)

// WithRand sets the random source used by GetRandom.
func WithRand(rng *rand.Rand) Option {
	return func(r *VerseRepository) {
		r.rng = rng
	}
}

// NewVerseRepository loads and validates the verse file at path.
func NewVerseRepository(path string, opts ...Option) (*VerseRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read verse file: %w", err)
	}

	verses, err := parseVerses(data)
	if err != nil {
		return nil, err
	}

	return newVerseRepository(verses, opts...), nil
}

func newVerseRepository(verses []*entities.Verse, opts ...Option) *VerseRepository {
	r := &VerseRepository{
		verses:   verses,
		byNumber: make(map[int]*entities.Verse, len(verses)),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, v := range verses {
		r.byNumber[v.Number] = v
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetByNumber retrieves a verse by its number.
func (r *VerseRepository) GetByNumber(_ context.Context, number int) (*entities.Verse, error) {
	v, ok := r.byNumber[number]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrVerseNotFound, number)
	}
	return v, nil
}

// GetRandom retrieves a verse chosen uniformly at random.
func (r *VerseRepository) GetRandom(_ context.Context) (*entities.Verse, error) {
	if len(r.verses) == 0 {
		return nil, ErrEmptyCollection
	}

	idx := r.rng.Intn(len(r.verses))
	return r.verses[idx], nil
}

// GetAll retrieves all verses in file order.
func (r *VerseRepository) GetAll(_ context.Context) ([]*entities.Verse, error) {
	return r.verses, nil
}

// Count returns the number of loaded verses.
func (r *VerseRepository) Count() int {
	return len(r.verses)
}

func parseVerses(data []byte) ([]*entities.Verse, error) {
	var wrapper struct {
		Features []struct {
			Properties *entities.Verse `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verses JSON: %w", err)
	}

	if len(wrapper.Features) == 0 {
		return nil, ErrEmptyCollection
	}

	verses := make([]*entities.Verse, 0, len(wrapper.Features))
	seen := make(map[int]struct{}, len(wrapper.Features))
	for i, f := range wrapper.Features {
		v := f.Properties
		if v == nil {
			return nil, fmt.Errorf("%w: feature %d has no properties", ErrMalformedVerse, i)
		}
		normalize(v)
		if err := validate(v); err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		if _, dup := seen[v.Number]; dup {
			return nil, fmt.Errorf("%w: duplicate kural_no %d", ErrMalformedVerse, v.Number)
		}
		seen[v.Number] = struct{}{}
		verses = append(verses, v)
	}

	return verses, nil
}

// normalize brings text fields to NFC so that glyph lookup sees composed runes.
func normalize(v *entities.Verse) {
	for _, s := range []*string{
		&v.Tamil, &v.Bamini1, &v.Bamini2,
		&v.Explanation, &v.Chapter, &v.ChapterTamil, &v.Section,
	} {
		*s = norm.NFC.String(strings.ReplaceAll(*s, "\r\n", "\n"))
	}
}

func validate(v *entities.Verse) error {
	if v.Number <= 0 {
		return fmt.Errorf("%w: kural_no must be positive, got %d", ErrMalformedVerse, v.Number)
	}
	if strings.TrimSpace(v.Explanation) == "" {
		return fmt.Errorf("%w: kural %d has no explanation", ErrMalformedVerse, v.Number)
	}
	if len(v.Lines()) == 0 {
		return fmt.Errorf("%w: kural %d has no original text", ErrMalformedVerse, v.Number)
	}
	return nil
}
