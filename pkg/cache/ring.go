package cache

import (
	"sync"

	"github.com/phishy-token-checker/pkg/classifier"
)

// Entry is one cached phishy determination, kept for display only. Tokens
// that came back clean are never stored.
type Entry struct {
	TokenAddress string            `json:"token_address"`
	TokenType    string            `json:"token_type"`
	PhishyCount  int               `json:"phishy_count"`
	Timestamp    string            `json:"timestamp"`
	Totals       classifier.Totals `json:"totals"`
}

// Ring is a bounded, insertion-ordered buffer of the most recent phishy
// results. The server appends once per completed phishy analysis and the
// listing endpoint reads snapshots, so a mutex guards every access. Nothing
// survives a restart.
type Ring struct {
	mu    sync.Mutex
	buf   []Entry
	next  int
	count int
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{buf: make([]Entry, capacity)}
}

// Add appends an entry, evicting the oldest when the ring is full.
func (r *Ring) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = e
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Snapshot returns the retained entries, most recent first.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, r.count)
	for i := 1; i <= r.count; i++ {
		idx := (r.next - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out
}

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
