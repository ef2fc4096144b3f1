package rbn

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"rbnmap/spot"
)

// spotRE matches RBN skimmer lines such as:
//
//	DX de W6XYZ-#:   7030.5  N0CALL         CW    24 dB  22 WPM  CQ      0431Z
//
// Captures: spotter (without the -# suffix), frequency, spotted callsign,
// mode, signal strength, time-of-day stamp.
var spotRE = regexp.MustCompile(`^DX de ([A-Z\d\-\/]*)-#:\s+([\d.]*)\s+([A-Z\d\-\/]*)\s+([A-Z\d]*)\s+(\d*) dB.*\s+(\d{4}Z)`)

func containsChallenge(line string) bool {
	return strings.Contains(line, loginChallenge)
}

// parseLine matches one feed line and applies the admission filters in order:
// mode, trusted spotter, General sub-band (when configured), band allow-list.
// Anything that fails to match or filter is discarded without logging; the
// feed interleaves banners and partial lines routinely and they are not
// errors.
func (c *Client) parseLine(line string) {
	m := spotRE.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil || len(m) < 7 {
		return
	}

	spotter := m[1]
	mode := m[4]
	if mode != c.filters.Mode {
		return
	}
	if _, ok := c.filters.Trusted[spotter]; !ok {
		return
	}

	freq, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return
	}
	if c.filters.GeneralOnly && !spot.InGeneralSubBand(freq) {
		return
	}
	band := spot.BandOf(freq)
	if _, ok := c.filters.Bands[band]; !ok {
		return
	}

	report, err := strconv.Atoi(m[5])
	if err != nil {
		report = 0
	}

	s := &spot.Spot{
		Call:    m[3],
		Spotter: spotter,
		FreqKHz: freq,
		Band:    band,
		Mode:    mode,
		Report:  report,
		TimeUTC: m[6],
	}

	select {
	case c.spotChan <- s:
	default:
		// A stalled consumer must not block the read loop.
		log.Println("RBN: spot channel full, dropping spot")
	}
}
