package history

import (
	"testing"
	"time"

	"clementus360/study-assistant/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPrependsNewestFirst(t *testing.T) {
	log := New(0)
	log.Record("first")
	log.Record("second")
	log.Record("third")

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Title)
	assert.Equal(t, "second", entries[1].Title)
	assert.Equal(t, "first", entries[2].Title)
}

func TestRecordAssignsUniqueIDs(t *testing.T) {
	log := New(0)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		entry := log.Record("entry")
		assert.NotEmpty(t, entry.ID)
		assert.False(t, seen[entry.ID], "duplicate id %s", entry.ID)
		seen[entry.ID] = true
	}
}

func TestRecordTimestamp(t *testing.T) {
	log := New(0)
	fixed := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)
	log.now = func() time.Time { return fixed }

	entry := log.Record("Quiz: notes.pdf")
	assert.Equal(t, "Mar 5, 2024 2:07 PM", entry.Timestamp)
	assert.Equal(t, fixed, entry.CreatedAt)
}

func TestLimitEvictsOldest(t *testing.T) {
	log := New(2)
	log.Record("a")
	log.Record("b")
	log.Record("c")

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Title)
	assert.Equal(t, "b", entries[1].Title)
}

func TestEntriesReturnsCopy(t *testing.T) {
	log := New(0)
	log.Record("a")

	entries := log.Entries()
	entries[0].Title = "mutated"
	assert.Equal(t, "a", log.Entries()[0].Title)
}

func TestSubscribe(t *testing.T) {
	log := New(0)
	var got []string
	unsubscribe := log.Subscribe(func(e types.HistoryEntry) { got = append(got, e.Title) })

	log.Record("one")
	unsubscribe()
	log.Record("two")

	assert.Equal(t, []string{"one"}, got)
	assert.Equal(t, 2, log.Len())
}
