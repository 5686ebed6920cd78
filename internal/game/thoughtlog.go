package game

import "sync"

const logMaxEntries = 60

// ThoughtEntry is a single line in the thought log.
type ThoughtEntry struct {
	Tick    int
	Label   string // agent label, e.g. "H3"
	Message string
}

// ThoughtLog is a ring buffer of recent agent decisions shown by the viewer.
type ThoughtLog struct {
	mu      sync.Mutex
	entries []ThoughtEntry
	head    int
	count   int
}

// NewThoughtLog creates a thought log with a fixed capacity.
func NewThoughtLog() *ThoughtLog {
	return &ThoughtLog{
		entries: make([]ThoughtEntry, logMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest when full.
func (tl *ThoughtLog) Add(tick int, label, msg string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.entries[tl.head] = ThoughtEntry{
		Tick:    tick,
		Label:   label,
		Message: msg,
	}
	tl.head = (tl.head + 1) % logMaxEntries
	if tl.count < logMaxEntries {
		tl.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (tl *ThoughtLog) Recent() []ThoughtEntry {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	result := make([]ThoughtEntry, tl.count)
	for i := 0; i < tl.count; i++ {
		idx := (tl.head - tl.count + i + logMaxEntries) % logMaxEntries
		result[i] = tl.entries[idx]
	}
	return result
}

// Len is the number of entries held.
func (tl *ThoughtLog) Len() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.count
}
