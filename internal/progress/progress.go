package progress

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Bar is a throttled file-read progress line.
type Bar struct {
	total      int64
	current    int64
	width      int
	writer     io.Writer
	mu         sync.Mutex
	languages  map[string]bool
	enabled    bool
	lastUpdate time.Time
}

// New returns a bar drawn on stderr. It is silent unless stderr is a terminal.
func New(total int64) *Bar {
	fd := os.Stderr.Fd()
	return NewWriter(total, os.Stderr, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

// NewWriter returns a bar drawn on w.
func NewWriter(total int64, w io.Writer, enabled bool) *Bar {
	return &Bar{
		total:      total,
		width:      40,
		writer:     w,
		languages:  make(map[string]bool),
		enabled:    enabled,
		lastUpdate: time.Now(),
	}
}

// SetLanguage records a language whose files are being read.
func (b *Bar) SetLanguage(code string) {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.languages[code] = true
}

// Increment counts one file and redraws at most every 100ms.
func (b *Bar) Increment() {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current == b.total {
		b.lastUpdate = now
		b.render()
	}
}

// render must be called with mu already locked
func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	current := min(b.current, b.total)
	percent := float64(current) / float64(b.total) * 100
	filledWidth := int(float64(b.width) * float64(current) / float64(b.total))

	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	langs := make([]string, 0, len(b.languages))
	for code := range b.languages {
		langs = append(langs, code)
	}
	sort.Strings(langs)

	var langDisplay string
	if len(langs) > 3 {
		langDisplay = fmt.Sprintf(" | %s +%d more", strings.Join(langs[:3], ", "), len(langs)-3)
	} else if len(langs) > 0 {
		langDisplay = " | " + strings.Join(langs, ", ")
	}

	// Clear the line and write progress
	fmt.Fprintf(b.writer, "\r\033[K[%s] %3d%% (%d/%d)%s",
		bar, int(percent), current, b.total, langDisplay)
}

// Finish draws the final state and ends the line.
func (b *Bar) Finish() {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = b.total
	b.render()
	fmt.Fprintf(b.writer, "\n")
}
