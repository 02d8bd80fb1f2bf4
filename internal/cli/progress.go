package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// extractionProgress draws a progress bar while reached files are extracted.
type extractionProgress struct {
	w     io.Writer
	quiet bool
	bar   *progressbar.ProgressBar
}

func newExtractionProgress(w io.Writer, quiet bool) *extractionProgress {
	return &extractionProgress{w: w, quiet: quiet}
}

// Update matches slice.Options.Progress. The bar is created on the first
// call, once the total is known.
func (p *extractionProgress) Update(done, total int, _ string) {
	if p.quiet {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription("Extracting files"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(p.w)
			}),
		)
	}
	_ = p.bar.Set(done)
}

// Reset discards the current bar so the next run starts a new one.
func (p *extractionProgress) Reset() {
	p.bar = nil
}
