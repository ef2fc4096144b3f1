// Package spot defines the spot record produced by the feed parser and the
// band classification tables used to filter and label it.
package spot

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Spot is a single reported sighting of a callsign at a frequency.
type Spot struct {
	Call    string  // spotted station
	Spotter string  // reporting skimmer (without the -# suffix)
	FreqKHz float64 // reported frequency in kHz
	Band    string  // classified band label, e.g. "20"
	Mode    string  // reported mode, e.g. "CW"
	Report  int     // signal strength in dB
	TimeUTC string  // time-of-day stamp from the feed, e.g. "0431Z"
}

// EventHash folds the identifying fields into a 32-bit key for the windowed
// duplicate suppressor. Frequency is rounded to 0.1 kHz so skimmers reporting
// the same station at the same spot frequency collide.
func (s *Spot) EventHash() uint32 {
	buf := fmt.Appendf(nil, "%s|%.1f|%s", s.Call, s.FreqKHz, s.Band)
	return uint32(xxh3.Hash(buf))
}
