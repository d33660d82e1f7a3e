package entities

import "time"

// Wallpaper is the rendered image produced for a single verse.
type Wallpaper struct {
	Verse  *Verse
	Path   string    // absolute path of the written PNG
	Date   time.Time // day the wallpaper was generated for
	Width  int
	Height int
}
