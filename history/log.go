package history

import (
	"sync"
	"time"

	"clementus360/study-assistant/types"

	"github.com/oklog/ulid/v2"
)

// TimestampLayout is how entry times are shown in the sidebar.
const TimestampLayout = "Jan 2, 2006 3:04 PM"

// Log is the in-memory activity list shown in the sidebar. Entries are
// prepended, so index 0 is always the newest.
type Log struct {
	mu        sync.RWMutex
	entries   []types.HistoryEntry
	limit     int
	now       func() time.Time
	listeners map[int]func(types.HistoryEntry)
	nextID    int
}

// New creates a log holding at most limit entries. limit <= 0 means unbounded.
func New(limit int) *Log {
	return &Log{
		limit:     limit,
		now:       time.Now,
		listeners: make(map[int]func(types.HistoryEntry)),
	}
}

// Record creates an entry for title and prepends it.
func (l *Log) Record(title string) types.HistoryEntry {
	now := l.now()
	entry := types.HistoryEntry{
		ID:        ulid.Make().String(),
		Title:     title,
		Timestamp: now.Format(TimestampLayout),
		CreatedAt: now,
	}

	l.mu.Lock()
	l.entries = append([]types.HistoryEntry{entry}, l.entries...)
	if l.limit > 0 && len(l.entries) > l.limit {
		l.entries = l.entries[:l.limit]
	}
	listeners := make([]func(types.HistoryEntry), 0, len(l.listeners))
	for _, fn := range l.listeners {
		listeners = append(listeners, fn)
	}
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(entry)
	}
	return entry
}

// Entries returns a copy, newest first.
func (l *Log) Entries() []types.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]types.HistoryEntry(nil), l.entries...)
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Subscribe registers fn to be called after every Record.
func (l *Log) Subscribe(fn func(types.HistoryEntry)) (unsubscribe func()) {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.listeners, id)
		l.mu.Unlock()
	}
}
