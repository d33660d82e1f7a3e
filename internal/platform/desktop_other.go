//go:build !windows

package platform

import (
	"fmt"
	"path/filepath"
)

// SetWallpaper always fails outside Windows.
func (d *Desktop) SetWallpaper(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s", ErrRelativePath, path)
	}
	return ErrUnsupportedPlatform
}
