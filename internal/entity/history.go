package entity

import "time"

type HistoryEntry struct {
	At       time.Time
	Actor    string
	Activity string
}

// History is an append-only log. The zero value is an empty history.
type History struct {
	entries []HistoryEntry
}

func NewHistory(entries ...HistoryEntry) History {
	if len(entries) == 0 {
		return History{}
	}
	cp := make([]HistoryEntry, len(entries))
	copy(cp, entries)
	return History{entries: cp}
}

// Append returns a history with e added at the end. The receiver is left untouched,
// so clones holding the old history never observe the new entry.
func (h History) Append(e HistoryEntry) History {
	next := make([]HistoryEntry, len(h.entries), len(h.entries)+1)
	copy(next, h.entries)
	return History{entries: append(next, e)}
}

func (h History) Len() int {
	return len(h.entries)
}

func (h History) Entries() []HistoryEntry {
	cp := make([]HistoryEntry, len(h.entries))
	copy(cp, h.entries)
	return cp
}

func (h History) Last() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}
