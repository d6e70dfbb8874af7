package cli

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ytget/ytdl-shell/internal/engine"
)

const progressThrottle = 100 * time.Millisecond

// progressReporter draws one bar per file reported by the engine
type progressReporter struct {
	mu       sync.Mutex
	out      io.Writer
	bar      *progressbar.ProgressBar
	filename string
}

func newProgressReporter(out io.Writer) *progressReporter {
	return &progressReporter{out: out}
}

// Report consumes an engine progress sample
func (r *progressReporter) Report(p engine.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar == nil || p.Filename != r.filename {
		r.finishLocked()
		r.filename = p.Filename
		r.bar = r.newBar(p)
	}
	if p.TotalBytes > 0 && r.bar.GetMax64() != p.TotalBytes {
		r.bar.ChangeMax64(p.TotalBytes)
	}
	_ = r.bar.Set64(p.DownloadedBytes)
}

// Finish completes the current bar, if any
func (r *progressReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishLocked()
}

func (r *progressReporter) finishLocked() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
	r.filename = ""
}

func (r *progressReporter) newBar(p engine.Progress) *progressbar.ProgressBar {
	desc := p.Title
	if desc == "" {
		desc = p.Filename
	}
	total := p.TotalBytes
	if total <= 0 {
		total = -1
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(progressThrottle),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetWidth(30),
	)
}
