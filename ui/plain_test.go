package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func testConsole(buf *bytes.Buffer) *Console {
	// Not a TTY: fixed geometry, no escapes.
	return &Console{out: buf, isTTY: false}
}

func TestConsoleCapacityLeavesHeaderRoom(t *testing.T) {
	c := testConsole(&bytes.Buffer{})
	if got := c.Capacity(); got != fallbackHeight-1 {
		t.Fatalf("Capacity = %d, want %d", got, fallbackHeight-1)
	}
}

func TestConsoleRenderPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	c := testConsole(&buf)

	rows := []Row{
		{Callsign: "W1LO", FreqKHz: 7030.5, Band: "40", TimeUTC: "0431Z", Age: 12 * time.Second, Tier: TierPassband},
		{Callsign: "K2HI", FreqKHz: 14025.0, Band: "20", TimeUTC: "0432Z", Age: 90 * time.Second, Tier: TierWorked},
	}
	c.Render(14025.2, 1234, true, rows)

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Error("non-TTY output must not contain ANSI escapes")
	}
	if !strings.Contains(out, "Spots VFO: 14025.2") {
		t.Errorf("header missing VFO: %q", out)
	}
	if !strings.Contains(out, "seen 1,234") {
		t.Errorf("header missing seen count: %q", out)
	}
	if strings.Contains(out, "FEED DOWN") {
		t.Errorf("feed marker shown while feed is up: %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[1], "W1LO") {
		t.Errorf("row order wrong: %q", lines[1])
	}
}

func TestConsoleRenderShowsFeedDown(t *testing.T) {
	var buf bytes.Buffer
	c := testConsole(&buf)

	c.Render(0, 0, false, nil)

	if out := buf.String(); !strings.Contains(out, "FEED DOWN") {
		t.Errorf("header missing feed-down marker: %q", out)
	}
}

func TestFormatRow(t *testing.T) {
	r := Row{Callsign: "N0CALL", FreqKHz: 7030.5, Band: "40", TimeUTC: "0431Z", Age: 42 * time.Second}
	got := FormatRow(r)
	for _, want := range []string{"N0CALL", "7030.5", "40M", "0431Z", "42s"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatRow = %q, missing %q", got, want)
		}
	}
}
