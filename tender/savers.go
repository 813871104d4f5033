package tender

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrSaveCancelled signals that the user dismissed a save dialog. It
// ends the export silently; every other saver failure falls through to
// the next tier.
var ErrSaveCancelled = errors.New("save cancelled")

// ReportSaver persists a rendered report. The desktop UI provides a
// dialog-backed implementation; DirSaver is the fallback tier.
type ReportSaver interface {
	Save(filename string, data []byte) error
}

// DirSaver writes reports into a fixed directory under the suggested
// filename, the desktop counterpart of a browser's automatic download.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(filename string, data []byte) error {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
