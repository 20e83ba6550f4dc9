package activity

import (
	"sync"
	"time"
)

// Entry is one recorded task lifecycle event.
type Entry struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	TaskID     string    `json:"task_id"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Feed is a bounded, thread-safe log of recent activity. Once full, the
// oldest entry is overwritten.
type Feed struct {
	mu       sync.RWMutex
	entries  []Entry
	next     int
	full     bool
	counts   map[string]int64
	capacity int
}

// NewFeed creates a feed holding at most capacity entries.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = 100
	}
	return &Feed{
		entries:  make([]Entry, capacity),
		counts:   make(map[string]int64),
		capacity: capacity,
	}
}

// Record appends an entry.
func (f *Feed) Record(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[f.next] = e
	f.next = (f.next + 1) % f.capacity
	if f.next == 0 {
		f.full = true
	}
	f.counts[e.Type]++
}

// Len returns the number of retained entries.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.size()
}

func (f *Feed) size() int {
	if f.full {
		return f.capacity
	}
	return f.next
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything retained.
func (f *Feed) Recent(limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := f.size()
	if limit <= 0 || limit > n {
		limit = n
	}

	result := make([]Entry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + f.capacity) % f.capacity
		result = append(result, f.entries[idx])
	}
	return result
}

// Counts returns the total number of entries ever recorded per type,
// including those that have since been overwritten.
func (f *Feed) Counts() map[string]int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make(map[string]int64, len(f.counts))
	for k, v := range f.counts {
		result[k] = v
	}
	return result
}
