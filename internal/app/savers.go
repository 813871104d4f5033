package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"bidanalyser/tender"
)

// dialogSaver is the primary save tier: a native save dialog with a
// suggested filename and a PDF filter. Save blocks the calling
// goroutine until the dialog completes, so the export orchestrator can
// fall through on failure. A dismissed dialog reports ErrSaveCancelled.
type dialogSaver struct {
	win fyne.Window
}

func (d dialogSaver) Save(filename string, data []byte) error {
	done := make(chan error, 1)
	fyne.Do(func() {
		fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				done <- err
				return
			}
			if uc == nil {
				done <- tender.ErrSaveCancelled
				return
			}
			defer uc.Close()
			_, werr := uc.Write(data)
			done <- werr
		}, d.win)
		fd.SetFileName(filename)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
		fd.Show()
	})
	return <-done
}
