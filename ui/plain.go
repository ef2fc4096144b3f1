package ui

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

const (
	ansiReset    = "\x1b[0m"
	ansiWorked   = "\x1b[1;48;5;88m"  // bold on dark red
	ansiPassband = "\x1b[1;44m"       // bold on blue
	ansiNear     = "\x1b[1;48;5;240m" // bold on mid grey
	ansiNearby   = "\x1b[1;48;5;237m" // bold on dark grey
)

// fallback geometry when stdout is not a terminal.
const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

// Console renders the bandmap with ANSI escapes, one full repaint per cycle.
// It is the renderer for dumb terminals and redirected output.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	fd    int
	isTTY bool
	buf   bytes.Buffer
}

// NewConsole renders to stdout.
func NewConsole() *Console {
	fd := int(os.Stdout.Fd())
	return &Console{
		out:   os.Stdout,
		fd:    fd,
		isTTY: term.IsTerminal(fd),
	}
}

func (c *Console) size() (width, height int) {
	if !c.isTTY {
		return fallbackWidth, fallbackHeight
	}
	w, h, err := term.GetSize(c.fd)
	if err != nil || w <= 0 || h <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return w, h
}

// Capacity leaves one line for the header rule.
func (c *Console) Capacity() int {
	_, h := c.size()
	if h <= 1 {
		return 1
	}
	return h - 1
}

// Render repaints the whole screen: header rule, then one styled line per row.
func (c *Console) Render(vfoKHz float64, totalSeen uint64, feedUp bool, rows []Row) {
	c.mu.Lock()
	defer c.mu.Unlock()

	width, _ := c.size()
	c.buf.Reset()
	if c.isTTY {
		c.buf.WriteString("\x1b[2J\x1b[H")
	}
	c.writeRule(width, vfoKHz, totalSeen, feedUp)
	for _, r := range rows {
		c.writeRow(width, r)
	}
	c.buf.WriteTo(c.out)
}

func (c *Console) writeRule(width int, vfoKHz float64, totalSeen uint64, feedUp bool) {
	label := fmt.Sprintf(" Spots VFO: %.1f | seen %s ", vfoKHz, humanize.Comma(int64(totalSeen)))
	if !feedUp {
		label += "| FEED DOWN "
	}
	pad := width - len(label)
	if pad < 2 {
		pad = 2
	}
	left := pad / 2
	c.buf.WriteString(strings.Repeat("─", left))
	c.buf.WriteString(label)
	c.buf.WriteString(strings.Repeat("─", pad-left))
	c.buf.WriteByte('\n')
}

func (c *Console) writeRow(width int, r Row) {
	line := FormatRow(r)
	if len(line) > width {
		line = line[:width]
	}
	style := ""
	switch r.Tier {
	case TierWorked:
		style = ansiWorked
	case TierPassband:
		style = ansiPassband
	case TierNear:
		style = ansiNear
	case TierNearby:
		style = ansiNearby
	default:
		if r.InGeneral {
			style = "" // authorized sub-band, default styling
		} else {
			style = "" // out of the authorized sub-band, currently identical
		}
	}
	if !c.isTTY {
		style = ""
	}
	c.buf.WriteString(style)
	c.buf.WriteString(line)
	if style != "" {
		c.buf.WriteString(ansiReset)
	}
	c.buf.WriteByte('\n')
}

// Close is a no-op; stdout stays open.
func (c *Console) Close() {}

// FormatRow lays out one bandmap line: callsign, frequency, band, feed time
// stamp and age. Both renderers share it.
func FormatRow(r Row) string {
	return fmt.Sprintf("%-11s %8.1f %3sM %s %3ds",
		r.Callsign, r.FreqKHz, r.Band, r.TimeUTC, int(r.Age.Seconds()))
}
