package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/kural-wallpaper/internal/domain/entities"
)

var ErrNegativeNumber = errors.New("verse number must not be negative")

// WallpaperConfig controls where wallpapers go and what happens to them.
type WallpaperConfig struct {
	OutputDir    string
	SetWallpaper bool // call the desktop API after saving
	KeepDaily    bool // reuse the verse already recorded for the day
}

// GenerateOptions are the per-run inputs.
type GenerateOptions struct {
	Date   time.Time
	Number int // 0 selects a random verse
}

// WallpaperService runs the pipeline: select, render, save, set.
type WallpaperService struct {
	verses    *VerseService
	renderer  WallpaperRenderer
	desktop   DesktopSetter
	history   HistoryStore
	publisher WallpaperPublisher
	cfg       WallpaperConfig
	logger    *zap.Logger
}

// NewWallpaperService creates a new WallpaperService.
func NewWallpaperService(
	verses *VerseService,
	renderer WallpaperRenderer,
	desktop DesktopSetter,
	cfg WallpaperConfig,
	logger *zap.Logger,
) *WallpaperService {
	return &WallpaperService{
		verses:   verses,
		renderer: renderer,
		desktop:  desktop,
		cfg:      cfg,
		logger:   logger,
	}
}

// SetHistory enables recording of generated wallpapers.
func (s *WallpaperService) SetHistory(history HistoryStore) {
	s.history = history
}

// SetPublisher enables sharing of generated wallpapers.
func (s *WallpaperService) SetPublisher(publisher WallpaperPublisher) {
	s.publisher = publisher
}

// Generate produces the wallpaper for opts.Date and, if configured, sets it
// as the desktop background. Failures of the optional sinks are logged and
// do not fail the run.
func (s *WallpaperService) Generate(ctx context.Context, opts GenerateOptions) (*entities.Wallpaper, error) {
	if opts.Number < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeNumber, opts.Number)
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}

	number, recorded := s.dailyNumber(ctx, opts)

	verse, err := s.verses.Select(ctx, number)
	if err != nil && recorded {
		s.logger.Warn("recorded verse unavailable, picking a new one",
			zap.Int("kural_no", number), zap.Error(err))
		verse, err = s.verses.Select(ctx, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("select verse: %w", err)
	}
	s.logger.Info("verse selected", zap.Int("kural_no", verse.Number), zap.String("chapter", verse.Chapter))

	wallpaper, err := s.renderer.Generate(verse, s.cfg.OutputDir, opts.Date)
	if err != nil {
		return nil, fmt.Errorf("generate wallpaper: %w", err)
	}

	if s.cfg.SetWallpaper {
		if err := s.desktop.SetWallpaper(wallpaper.Path); err != nil {
			return nil, fmt.Errorf("set wallpaper %s: %w", wallpaper.Path, err)
		}
		s.logger.Info("desktop wallpaper set", zap.String("path", wallpaper.Path))
	}

	if s.history != nil {
		if err := s.history.Record(ctx, wallpaper); err != nil {
			s.logger.Error("failed to record history", zap.Error(err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, wallpaper); err != nil {
			s.logger.Error("failed to publish wallpaper", zap.Error(err))
		}
	}

	return wallpaper, nil
}

// dailyNumber returns the verse to use: the requested one, the one already
// recorded for the day when KeepDaily is on, or 0 for a random pick.
// recorded is true when the number came from history.
func (s *WallpaperService) dailyNumber(ctx context.Context, opts GenerateOptions) (number int, recorded bool) {
	if opts.Number != 0 || !s.cfg.KeepDaily || s.history == nil {
		return opts.Number, false
	}

	number, err := s.history.GetByDate(ctx, opts.Date)
	if err != nil {
		s.logger.Warn("failed to read history, picking a new verse", zap.Error(err))
		return 0, false
	}
	if number == 0 {
		return 0, false
	}

	s.logger.Info("reusing verse recorded for the day", zap.Int("kural_no", number))
	return number, true
}
