// Package platform sets the desktop background through the operating system.
package platform

import "errors"

var (
	ErrSetWallpaper        = errors.New("set desktop wallpaper")
	ErrUnsupportedPlatform = errors.New("setting the wallpaper is not supported on this platform")
	ErrRelativePath        = errors.New("wallpaper path must be absolute")
)

// Desktop changes the desktop background of the current user session.
type Desktop struct{}

// NewDesktop creates a new Desktop.
func NewDesktop() *Desktop {
	return &Desktop{}
}
