package logging

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// InlineProgress renders a live-updating bar per label via
// schollz/progressbar, while info/warn/error/debug fall through to stderr
// like Console. This is the CLI's default interactive logger.
type InlineProgress struct {
	verbose bool
	logger  *log.Logger

	mu   sync.Mutex
	bars map[string]*progressbar.ProgressBar
}

// NewInlineProgress creates an InlineProgress logger.
func NewInlineProgress(verbose bool) *InlineProgress {
	return &InlineProgress{
		verbose: verbose,
		logger:  log.New(os.Stderr, "", log.LstdFlags),
		bars:    make(map[string]*progressbar.ProgressBar),
	}
}

func (p *InlineProgress) Info(msg string, args ...any)  { p.logger.Printf(msg, args...) }
func (p *InlineProgress) Warn(msg string, args ...any)  { p.logger.Printf("warning: "+msg, args...) }
func (p *InlineProgress) Error(msg string, args ...any) { p.logger.Printf("error: "+msg, args...) }

func (p *InlineProgress) Debug(msg string, args ...any) {
	if !p.verbose {
		return
	}
	p.logger.Printf("debug: "+msg, args...)
}

func (p *InlineProgress) Progress(label string, completed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bar, ok := p.bars[label]
	if !ok {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() { fmt.Println() }),
		)
		p.bars[label] = bar
	}
	bar.Set(completed)
}

func (p *InlineProgress) ClearProgress(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if bar, ok := p.bars[label]; ok {
		bar.Finish()
		delete(p.bars, label)
	}
}
