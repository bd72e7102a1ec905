package game

import "time"

type QueueEntry struct {
	ID       string
	Name     string
	Mode     Mode
	JoinedAt time.Time
}

// Queue keeps one FIFO of waiting connections per mode. A connection sits in
// at most one FIFO. Not safe for concurrent use; the Coordinator owns it.
type Queue struct {
	waiting map[Mode][]QueueEntry
}

func NewQueue() *Queue {
	return &Queue{waiting: make(map[Mode][]QueueEntry, len(Modes))}
}

// Push appends at the tail of the entry's mode.
func (q *Queue) Push(e QueueEntry) {
	q.waiting[e.Mode] = append(q.waiting[e.Mode], e)
}

// Contains reports which mode a connection waits in, if any.
func (q *Queue) Contains(id string) (Mode, bool) {
	for mode, entries := range q.waiting {
		if indexOf(entries, id) >= 0 {
			return mode, true
		}
	}
	return "", false
}

// Remove drops a connection from whichever FIFO holds it.
func (q *Queue) Remove(id string) (QueueEntry, bool) {
	for mode, entries := range q.waiting {
		if i := indexOf(entries, id); i >= 0 {
			e := entries[i]
			q.waiting[mode] = append(entries[:i:i], entries[i+1:]...)
			return e, true
		}
	}
	return QueueEntry{}, false
}

// TakePair finds the first entry in mode that is not id and removes both it
// and id's own entry. ok is false, and nothing changes, when id is not queued
// in mode or nobody else is waiting.
func (q *Queue) TakePair(mode Mode, id string) (self, opponent QueueEntry, ok bool) {
	entries := q.waiting[mode]
	si := indexOf(entries, id)
	if si < 0 {
		return QueueEntry{}, QueueEntry{}, false
	}
	oi := -1
	for i, e := range entries {
		if e.ID != id {
			oi = i
			break
		}
	}
	if oi < 0 {
		return QueueEntry{}, QueueEntry{}, false
	}

	self, opponent = entries[si], entries[oi]
	rest := make([]QueueEntry, 0, len(entries)-2)
	for i, e := range entries {
		if i != si && i != oi {
			rest = append(rest, e)
		}
	}
	q.waiting[mode] = rest
	return self, opponent, true
}

func (q *Queue) Len(mode Mode) int {
	return len(q.waiting[mode])
}

// Waiting lists the ids queued in mode, head first.
func (q *Queue) Waiting(mode Mode) []string {
	out := make([]string, 0, len(q.waiting[mode]))
	for _, e := range q.waiting[mode] {
		out = append(out, e.ID)
	}
	return out
}

func indexOf(entries []QueueEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
