// Package session holds the live monitoring session: the in-memory reading
// buffer, the monitoring state with its start provenance, and the ingestion
// loop that drives both from the device's line stream.
package session

import (
	"math"
	"sync"

	"github.com/rileyhilliard/vitalscope/internal/vitals"
)

// DefaultBufferSize is the number of readings retained per session.
const DefaultBufferSize = 200

// DefaultSeriesLen is the number of points fed to a sparkline.
const DefaultSeriesLen = 50

// DefaultTailLen is the number of readings shown in the ticker.
const DefaultTailLen = 20

// Buffer is a fixed-size ring of readings with strict FIFO eviction. The
// ingestion loop is the only writer; the dashboard reads it concurrently.
type Buffer struct {
	mu    sync.RWMutex
	data  []vitals.Reading
	head  int
	count int
	size  int
}

// NewBuffer creates a buffer retaining at most size readings.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffer{
		data: make([]vitals.Reading, size),
		size: size,
	}
}

// Append adds a reading, evicting the oldest when full.
func (b *Buffer) Append(r vitals.Reading) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[b.head] = r
	b.head = (b.head + 1) % b.size
	if b.count < b.size {
		b.count++
	}
}

// Len returns the number of retained readings.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Latest returns the most recent reading, if any.
func (b *Buffer) Latest() (vitals.Reading, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return vitals.Reading{}, false
	}
	idx := (b.head - 1 + b.size) % b.size
	return b.data[idx], true
}

// Tail returns the last n readings in chronological order (oldest first).
// Returns fewer when less history exists.
func (b *Buffer) Tail(n int) []vitals.Reading {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n <= 0 || b.count == 0 {
		return nil
	}
	if n > b.count {
		n = b.count
	}

	out := make([]vitals.Reading, n)
	start := (b.head - n + b.size) % b.size
	for i := 0; i < n; i++ {
		out[i] = b.data[(start+i)%b.size]
	}
	return out
}

// Series returns up to n recent values of one metric in chronological
// order, filtered to finite values so sparkline math stays defined.
func (b *Buffer) Series(m vitals.Metric, n int) []float64 {
	readings := b.Tail(n)
	if len(readings) == 0 {
		return nil
	}

	out := make([]float64, 0, len(readings))
	for _, r := range readings {
		v := r.Value(m)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Average returns the mean of a metric across all retained readings.
func (b *Buffer) Average(m vitals.Metric) (float64, bool) {
	values := b.Series(m, b.Len())
	if len(values) == 0 {
		return 0, false
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// Reset discards every retained reading.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.count = 0
}
