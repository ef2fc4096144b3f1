package main

import (
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/agnivade/levenshtein"

	"rbnmap/archive"
	"rbnmap/config"
	"rbnmap/dedup"
	"rbnmap/logbook"
	"rbnmap/rbn"
	"rbnmap/rig"
	"rbnmap/spot"
	"rbnmap/store"
	"rbnmap/ui"
)

// app owns the state shared between the three loops. The spot store carries
// its own lock; the VFO is an advisory scalar read and written atomically;
// the contact index lives on the render loop alone and is replaced wholesale
// each cycle.
type app struct {
	cfg      *config.Config
	spots    *store.Store
	contacts *logbook.Reader
	feed     *rbn.Client
	rig      *rig.Client
	arch     *archive.Writer
	dedupe   *dedup.Window
	renderer ui.Renderer

	vfoBits   atomic.Uint64 // Float64bits of the tuned frequency in kHz
	totalSeen atomic.Uint64
}

func (a *app) setVFO(khz float64) { a.vfoBits.Store(math.Float64bits(khz)) }
func (a *app) vfoKHz() float64    { return math.Float64frombits(a.vfoBits.Load()) }

// ingestLoop drains accepted feed spots into the store. A store failure is
// unrecoverable by design: the loop reports it and stops rather than keep
// mutating a store in an unknown state.
func (a *app) ingestLoop(fatal chan<- error) {
	busts := newBustDetector(2 * time.Minute)
	for s := range a.feed.Spots() {
		now := time.Now()
		if a.dedupe.Duplicate(s.EventHash(), now) {
			continue
		}
		if suspect, ok := busts.check(s.Call, s.FreqKHz, now); ok {
			log.Printf("Ingest: %s at %.1f may be a busted copy of %s", s.Call, s.FreqKHz, suspect)
		}
		if err := a.spots.Upsert(s.Call, s.FreqKHz, s.Band); err != nil {
			fatal <- err
			return
		}
		a.totalSeen.Add(1)
		a.arch.Enqueue(s)
	}
}

// pollVFOLoop asks flrig for the tuned frequency four times a second. Any
// failure writes the zero sentinel; nothing downstream treats the VFO as
// more than display advice, so the loop never terminates on error.
func (a *app) pollVFOLoop() {
	interval := time.Duration(a.cfg.Rig.PollMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		khz, err := a.rig.VFOKHz()
		if err != nil {
			khz = 0
		}
		a.setVFO(khz)
	}
}

// renderLoop repaints the bandmap once a second: rebuild the worked-contact
// index, snapshot the store in frequency order, classify each visible row,
// and evict the overflow.
func (a *app) renderLoop(fatal chan<- error) {
	interval := time.Duration(a.cfg.UI.RefreshMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var worked logbook.Index
	for range ticker.C {
		idx, err := a.contacts.Refresh()
		if err != nil {
			// Keep highlighting from the last good read; the logger may be
			// mid-write or not running yet.
			log.Printf("Logbook: refresh: %v", err)
		} else {
			worked = idx
		}

		rows, err := a.spots.ListByFrequency()
		if err != nil {
			fatal <- err
			return
		}

		visible, overflow := splitVisible(rows, a.renderer.Capacity())
		for range overflow {
			if err := a.spots.EvictOldest(); err != nil {
				fatal <- err
				return
			}
		}

		vfo := a.vfoKHz()
		out := make([]ui.Row, len(visible))
		for i, r := range visible {
			out[i] = classifyRow(r, vfo, worked)
		}
		a.renderer.Render(vfo, a.totalSeen.Load(), a.feed.IsConnected(), out)
	}
}

// splitVisible caps the listing at the display capacity; everything past the
// cap is returned for eviction.
func splitVisible(rows []store.Row, capacity int) (visible, overflow []store.Row) {
	if capacity < 0 {
		capacity = 0
	}
	if len(rows) <= capacity {
		return rows, nil
	}
	return rows[:capacity], rows[capacity:]
}

func classifyRow(r store.Row, vfoKHz float64, worked logbook.Index) ui.Row {
	return ui.Row{
		Callsign:  r.Callsign,
		FreqKHz:   r.FreqKHz,
		Band:      r.Band,
		TimeUTC:   r.Time.UTC().Format("1504Z"),
		Age:       time.Duration(r.AgeSeconds) * time.Second,
		Tier:      ui.Classify(r.FreqKHz, vfoKHz, worked.Worked(r.Callsign, r.Band)),
		InGeneral: spot.InGeneralSubBand(r.FreqKHz),
	}
}

// bustDetector flags callsigns one edit away from a recently accepted call
// on nearly the same frequency: skimmers miscopy weak CW routinely and the
// busted call shows up as a phantom second station. Advisory only; the
// store's one-record-per-callsign rule is untouched.
type bustDetector struct {
	window time.Duration
	recent map[string]bustEntry
}

type bustEntry struct {
	freqKHz float64
	seen    time.Time
}

func newBustDetector(window time.Duration) *bustDetector {
	return &bustDetector{
		window: window,
		recent: make(map[string]bustEntry),
	}
}

// check records call and reports the first recent near-identical call within
// 0.1 kHz, if any.
func (b *bustDetector) check(call string, freqKHz float64, now time.Time) (string, bool) {
	suspect := ""
	for other, e := range b.recent {
		if now.Sub(e.seen) > b.window {
			delete(b.recent, other)
			continue
		}
		if other == call || suspect != "" {
			continue
		}
		if math.Abs(e.freqKHz-freqKHz) <= 0.1 && levenshtein.ComputeDistance(call, other) == 1 {
			suspect = other
		}
	}
	b.recent[call] = bustEntry{freqKHz: freqKHz, seen: now}
	return suspect, suspect != ""
}
