package prof

import (
	"sort"
	"sync"
	"time"
)

// Entry represents a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Collector accumulates timing entries. The zero value is ready to use and
// safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	record []Entry
}

// Track logs the duration since start with the given name. A nil collector
// discards the entry.
func (c *Collector) Track(start time.Time, name string) {
	if c == nil {
		return
	}
	elapsed := time.Since(start)
	c.mu.Lock()
	c.record = append(c.record, Entry{Label: name, Dur: elapsed})
	c.mu.Unlock()
}

// SnapshotAndReset returns the collected timing entries and clears them.
func (c *Collector) SnapshotAndReset() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.record))
	copy(out, c.record)
	c.record = nil
	return out
}

// Summary aggregates the entries sharing a label.
type Summary struct {
	Label string
	Count int
	Total time.Duration
	Max   time.Duration
}

// Summarize groups entries by label, sorted by decreasing total time.
func Summarize(entries []Entry) []Summary {
	idx := map[string]int{}
	var out []Summary
	for _, e := range entries {
		i, ok := idx[e.Label]
		if !ok {
			i = len(out)
			idx[e.Label] = i
			out = append(out, Summary{Label: e.Label})
		}
		s := &out[i]
		s.Count++
		s.Total += e.Dur
		if e.Dur > s.Max {
			s.Max = e.Dur
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Total > out[b].Total })
	return out
}

var global Collector

// Global returns the process-wide collector.
func Global() *Collector { return &global }

// Track records into the process-wide collector.
func Track(start time.Time, name string) { global.Track(start, name) }

// SnapshotAndReset drains the process-wide collector.
func SnapshotAndReset() []Entry { return global.SnapshotAndReset() }
