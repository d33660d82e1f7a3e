package service

import (
	"context"
	"time"

	"github.com/aliskhannn/kural-wallpaper/internal/domain/entities"
)

type VerseRepository interface {
	GetByNumber(ctx context.Context, number int) (*entities.Verse, error)
	GetRandom(ctx context.Context) (*entities.Verse, error)
	GetAll(ctx context.Context) ([]*entities.Verse, error)
}

// WallpaperRenderer draws a verse and saves the image for a date.
type WallpaperRenderer interface {
	Generate(v *entities.Verse, dir string, date time.Time) (*entities.Wallpaper, error)
}

// DesktopSetter hands a rendered image to the operating system.
type DesktopSetter interface {
	SetWallpaper(path string) error
}

// HistoryStore keeps track of the verse used for each day.
type HistoryStore interface {
	Record(ctx context.Context, w *entities.Wallpaper) error
	GetByDate(ctx context.Context, date time.Time) (int, error)
}

// WallpaperPublisher shares a rendered wallpaper somewhere else.
type WallpaperPublisher interface {
	Publish(ctx context.Context, w *entities.Wallpaper) error
}
