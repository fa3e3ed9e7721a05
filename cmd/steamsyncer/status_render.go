package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"steamsyncer/internal/syncer"
)

const clearLine = "\r\033[K"

// statusPrinter renders orchestrator progress. On a terminal the line is
// rewritten in place; otherwise each status is printed on its own line.
type statusPrinter struct {
	out  io.Writer
	live bool

	mu      sync.Mutex
	pending bool
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, live: isTerminal(out)}
}

func (p *statusPrinter) update(status syncer.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	line := formatStatus(status)
	if !p.live {
		fmt.Fprintln(p.out, line)
		return
	}
	fmt.Fprint(p.out, clearLine+line)
	p.pending = true
	if status.State == syncer.StateSynced || status.State == syncer.StateError {
		p.flushLocked()
	}
}

// finish terminates an in-place line so later output starts on a new line.
func (p *statusPrinter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushLocked()
}

func (p *statusPrinter) flushLocked() {
	if p.pending {
		fmt.Fprintln(p.out)
		p.pending = false
	}
}

func formatStatus(status syncer.Status) string {
	switch status.State {
	case syncer.StateSyncing, syncer.StateSynced:
		return fmt.Sprintf("[%s] %s (found %d, added %d, artwork pending %d)",
			status.State, status.Message, status.Found, status.Added, status.PendingArtwork)
	default:
		return fmt.Sprintf("[%s] %s", status.State, status.Message)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
