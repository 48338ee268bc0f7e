//go:build !linux && !darwin

package platform

import (
	"fmt"
	"os"
)

// setTimes applies src's modification time to path. Access time is not
// portable here, so it is set to the same value.
func setTimes(path string, src os.FileInfo) error {
	if err := os.Chtimes(path, src.ModTime(), src.ModTime()); err != nil {
		return fmt.Errorf("chtimes %s: %w", path, err)
	}
	return nil
}
