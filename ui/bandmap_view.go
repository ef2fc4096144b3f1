package ui

import (
	"fmt"
	"log"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// bandmapView draws classified rows inside a bordered box. It records the
// height it was last drawn at so the render loop knows the visible capacity.
type bandmapView struct {
	*tview.Box
	mu          sync.Mutex
	rows        []Row
	visibleRows int
}

func newBandmapView() *bandmapView {
	v := &bandmapView{
		Box:         tview.NewBox(),
		visibleRows: fallbackHeight - 2,
	}
	v.SetBorder(true)
	v.SetBorderColor(tcell.ColorGray)
	v.SetTitleColor(tcell.ColorRed)
	return v
}

// setContent must run on the application's event loop.
func (v *bandmapView) setContent(vfoKHz float64, totalSeen uint64, feedUp bool, rows []Row) {
	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()
	title := fmt.Sprintf(" Spots VFO: %.1f | seen %s ", vfoKHz, humanize.Comma(int64(totalSeen)))
	if !feedUp {
		title += "| FEED DOWN "
		v.SetBorderColor(tcell.ColorRed)
	} else {
		v.SetBorderColor(tcell.ColorGray)
	}
	v.SetTitle(title)
}

func (v *bandmapView) capacity() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visibleRows
}

func (v *bandmapView) Draw(screen tcell.Screen) {
	v.Box.DrawForSubclass(screen, v)
	x, y, width, height := v.GetInnerRect()

	v.mu.Lock()
	v.visibleRows = height
	rows := v.rows
	v.mu.Unlock()

	for i, r := range rows {
		if i >= height {
			break
		}
		drawLine(screen, x, y+i, width, FormatRow(r), styleForRow(r))
	}
}

func drawLine(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := 0
	for _, ch := range text {
		if col >= width {
			return
		}
		screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
	for ; col < width; col++ {
		screen.SetContent(x+col, y, ' ', nil, style)
	}
}

func styleForRow(r Row) tcell.Style {
	base := tcell.StyleDefault
	switch r.Tier {
	case TierWorked:
		return base.Bold(true).Background(tcell.ColorDarkRed)
	case TierPassband:
		return base.Bold(true).Background(tcell.ColorBlue)
	case TierNear:
		return base.Bold(true).Background(tcell.NewRGBColor(88, 88, 88))
	case TierNearby:
		return base.Bold(true).Background(tcell.NewRGBColor(58, 58, 58))
	default:
		if r.InGeneral {
			return base
		}
		// Out-of-sub-band spots keep the default look for now.
		return base
	}
}

// Bandmap is the tview renderer. The application runs in its own goroutine;
// Render hands it fresh rows and schedules a redraw.
type Bandmap struct {
	app  *tview.Application
	view *bandmapView
	done chan struct{}
}

// NewBandmap builds the tview application and starts its event loop.
func NewBandmap() *Bandmap {
	b := &Bandmap{
		app:  tview.NewApplication(),
		view: newBandmapView(),
		done: make(chan struct{}),
	}
	b.app.SetRoot(b.view, true)
	go func() {
		defer close(b.done)
		if err := b.app.Run(); err != nil {
			log.Printf("UI: tview application stopped: %v", err)
		}
	}()
	return b
}

// Capacity reports the rows that fit inside the border at the last draw.
func (b *Bandmap) Capacity() int {
	return b.view.capacity()
}

// Render replaces the visible rows and repaints.
func (b *Bandmap) Render(vfoKHz float64, totalSeen uint64, feedUp bool, rows []Row) {
	b.app.QueueUpdateDraw(func() {
		b.view.setContent(vfoKHz, totalSeen, feedUp, rows)
	})
}

// Close stops the tview event loop and restores the terminal.
func (b *Bandmap) Close() {
	b.app.Stop()
	<-b.done
}
