// Package ui renders the frequency-sorted bandmap. Two renderers are
// provided: a tview list for interactive terminals and a plain ANSI console
// for everything else. Both consume the same classified rows; only the
// classification rules here carry correctness weight, the styling is
// cosmetic.
package ui

import "time"

// Tier is the highlight classification of one bandmap row, ordered by
// priority: a higher tier always wins.
type Tier int

const (
	TierDefault  Tier = iota
	TierNearby        // VFO delta under 0.8 kHz
	TierNear          // VFO delta under 0.5 kHz
	TierPassband      // VFO delta under 0.2 kHz
	TierWorked        // already logged on this band
)

// VFO proximity thresholds in kHz.
const (
	passbandKHz = 0.2
	nearKHz     = 0.5
	nearbyKHz   = 0.8
)

// Row is one displayable spot with its highlight classification.
type Row struct {
	Callsign  string
	FreqKHz   float64
	Band      string
	TimeUTC   string
	Age       time.Duration
	Tier      Tier
	InGeneral bool // authorized sub-band; styled separately from the tier
}

// Classify picks the highlight tier for a spot. Worked-before dominates VFO
// proximity; proximity tiers nest from tightest to loosest.
func Classify(freqKHz, vfoKHz float64, worked bool) Tier {
	if worked {
		return TierWorked
	}
	delta := freqKHz - vfoKHz
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta < passbandKHz:
		return TierPassband
	case delta < nearKHz:
		return TierNear
	case delta < nearbyKHz:
		return TierNearby
	default:
		return TierDefault
	}
}

// Renderer displays classified rows; implementations own their output device.
type Renderer interface {
	// Capacity returns how many rows currently fit on the display. The
	// render loop evicts store records beyond this count.
	Capacity() int
	// Render replaces the visible rows. feedUp reflects the spot feed
	// connection state so a dead feed is visible on screen.
	Render(vfoKHz float64, totalSeen uint64, feedUp bool, rows []Row)
	// Close releases the output device.
	Close()
}
