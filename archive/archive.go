// Package archive appends accepted spots to a JSONL file for offline review.
// It is designed to be removable: the ingest path never blocks on the writer,
// and backpressure results in dropped archive lines, not dropped spots.
package archive

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"

	"rbnmap/spot"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// record is one archived spot line.
type record struct {
	Time    time.Time `json:"time"`
	Call    string    `json:"call"`
	Spotter string    `json:"spotter"`
	FreqKHz float64   `json:"freq_khz"`
	Band    string    `json:"band"`
	Report  int       `json:"report_db"`
}

// Writer persists spots asynchronously; call Start before Enqueue.
type Writer struct {
	f         *os.File
	bw        *bufio.Writer
	queue     chan *spot.Spot
	stop      chan struct{}
	done      chan struct{}
	dropCount atomic.Uint64
}

// NewWriter opens (or creates) the JSONL file at path for appending.
func NewWriter(path string, queueSize int) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("archive: ensure dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &Writer{
		f:     f,
		bw:    bufio.NewWriter(f),
		queue: make(chan *spot.Spot, queueSize),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}, nil
}

// Start launches the write loop.
func (w *Writer) Start() {
	go w.writeLoop()
}

// Enqueue queues a spot without blocking; drops the line on a full queue.
func (w *Writer) Enqueue(s *spot.Spot) {
	if w == nil || s == nil {
		return
	}
	select {
	case w.queue <- s:
	default:
		if n := w.dropCount.Add(1); n%100 == 1 {
			log.Printf("Archive: queue full, %d lines dropped so far", n)
		}
	}
}

// Stop flushes and closes the file after draining queued spots.
func (w *Writer) Stop() {
	if w == nil {
		return
	}
	close(w.stop)
	<-w.done
}

func (w *Writer) writeLoop() {
	defer close(w.done)
	flush := time.NewTicker(time.Second)
	defer flush.Stop()

	for {
		select {
		case s := <-w.queue:
			w.writeRecord(s)
		case <-flush.C:
			if err := w.bw.Flush(); err != nil {
				log.Printf("Archive: flush: %v", err)
			}
		case <-w.stop:
			for {
				select {
				case s := <-w.queue:
					w.writeRecord(s)
				default:
					if err := w.bw.Flush(); err != nil {
						log.Printf("Archive: final flush: %v", err)
					}
					if err := w.f.Close(); err != nil {
						log.Printf("Archive: close: %v", err)
					}
					return
				}
			}
		}
	}
}

func (w *Writer) writeRecord(s *spot.Spot) {
	rec := record{
		Time:    time.Now().UTC(),
		Call:    s.Call,
		Spotter: s.Spotter,
		FreqKHz: s.FreqKHz,
		Band:    s.Band,
		Report:  s.Report,
	}
	line, err := json.Marshal(rec)
	if err != nil {
		log.Printf("Archive: encode: %v", err)
		return
	}
	w.bw.Write(line)
	w.bw.WriteByte('\n')
}
