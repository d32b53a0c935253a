package renderserver

import "sync"

// hub fans tile-ready events out to every subscriber. Slow subscribers miss events rather than
// block the others.
type hub struct {
	mu     sync.Mutex
	subs   map[chan int]struct{}
	closed bool
}

func newHub(ready <-chan int) *hub {
	h := &hub{subs: make(map[chan int]struct{})}
	go h.run(ready)
	return h
}

func (h *hub) run(ready <-chan int) {
	for t := range ready {
		h.mu.Lock()
		for ch := range h.subs {
			select {
			case ch <- t:
			default:
			}
		}
		h.mu.Unlock()
	}
	h.mu.Lock()
	h.closed = true
	for ch := range h.subs {
		close(ch)
	}
	h.subs = nil
	h.mu.Unlock()
}

// subscribe returns a channel of tile indices and a cancel func. The channel is closed when the
// spectrogram closes.
func (h *hub) subscribe() (<-chan int, func()) {
	ch := make(chan int, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
}
