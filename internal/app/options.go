package app

import (
	"github.com/kobzarvs/mdview/internal/config"
	"github.com/kobzarvs/mdview/internal/logger"
	"github.com/kobzarvs/mdview/internal/preview"
)

// previewOptions exposes the live config store to the preview controller.
type previewOptions struct {
	store *config.Store
}

func (o previewOptions) Options() preview.Options {
	p := o.store.Preview()
	return preview.Options{
		FileExtensions:       p.FileExtensions,
		SynchronizeScrolling: p.SynchronizeScrolling,
	}
}

// ToggleSynchronizeScrolling keeps the in-memory value even when the file
// cannot be written.
func (o previewOptions) ToggleSynchronizeScrolling() bool {
	on, err := o.store.ToggleSynchronizeScrolling()
	if err != nil {
		logger.Warn("persist synchronize-scrolling", "path", o.store.Path(), "error", err)
	}
	return on
}
