package dataset

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/go-hfdataset/hfdataset/internal/logging"
)

// progressReporter wraps download/listing operations with an optional
// terminal spinner and structured log lines, grounded on the teacher's
// pkg/hfutil/hub/progress.go ProgressManager. Unlike the teacher, sizes
// are rarely known ahead of a GET here (the HEAD probe returns an etag,
// not always a Content-Length), so CachedDownload drives a spinner
// rather than a byte-counted bar.
type progressReporter struct {
	logger  logging.Interface
	enabled bool
}

func newProgressReporter(logger logging.Interface, enabled bool) *progressReporter {
	return &progressReporter{logger: logger, enabled: enabled}
}

// spinnerFor returns a running spinner for a single-file fetch, or nil
// when progress bars are disabled.
func (p *progressReporter) spinnerFor(rawURL string) *progressbar.ProgressBar {
	if !p.enabled {
		return nil
	}
	description := fmt.Sprintf("fetching %s", rawURL)
	if len(description) > 60 {
		description = description[:57] + "..."
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

func (p *progressReporter) logStart(rawURL string) {
	if p.logger == nil {
		return
	}
	p.logger.WithField("url", rawURL).Info("fetching cache entry")
}

func (p *progressReporter) logDone(rawURL string, d time.Duration) {
	if p.logger == nil {
		return
	}
	p.logger.WithField("url", rawURL).WithField("duration_ms", d.Milliseconds()).Info("cache entry fetched")
}

func (p *progressReporter) logError(rawURL string, err error) {
	if p.logger == nil {
		return
	}
	p.logger.WithField("url", rawURL).WithError(err).Error("fetching cache entry failed")
}

func finishSpinner(bar *progressbar.ProgressBar) {
	if bar == nil {
		return
	}
	_ = bar.Finish()
}
