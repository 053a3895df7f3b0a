package scan

import (
	"sync"
)

// Progress is published while a scan runs. Total is -1 when the target count
// does not fit in an int64.
type Progress struct {
	Done    int64  `json:"done"`
	Total   int64  `json:"total"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

func newProgress(done, total int64, msg string) Progress {
	p := Progress{Done: done, Total: total, Message: msg}
	if total > 0 {
		p.Percent = int(done * 100 / total)
	}
	return p
}

type Hub struct {
	mu   sync.Mutex
	subs map[chan Progress]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Progress]struct{})}
}

func (h *Hub) Subscribe() chan Progress {
	ch := make(chan Progress, 64)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan Progress) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish never blocks; slow subscribers miss updates.
func (h *Hub) Publish(p Progress) {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- p:
		default:
		}
	}
	h.mu.Unlock()
}
