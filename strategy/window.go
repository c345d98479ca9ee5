package strategy

import "github.com/mariushelf/gekkopy/model"

// Window is a fixed-capacity sliding buffer over the most recent candles
// of one strategy. It is not safe for concurrent use, the owning session
// serializes access to it.
type Window struct {
	capacity int
	candles  model.Candles
}

// NewWindow creates a window holding at most capacity candles.
func NewWindow(capacity int) *Window {
	return &Window{
		capacity: capacity,
		candles:  make(model.Candles, 0, capacity),
	}
}

// Push appends one candle, evicting the oldest candle first when the
// window is already full. Once the window holds exactly its capacity it
// returns a snapshot copy, oldest first; before that ok is false and the
// snapshot is nil.
func (w *Window) Push(c model.Candle) (snapshot model.Candles, ok bool) {
	w.candles = append(w.candles, c)
	if len(w.candles) > w.capacity {
		w.candles = w.candles[len(w.candles)-w.capacity:]
	}
	if len(w.candles) < w.capacity {
		return nil, false
	}

	snapshot = make(model.Candles, w.capacity)
	copy(snapshot, w.candles)
	return snapshot, true
}

// Len returns the number of buffered candles.
func (w *Window) Len() int {
	return len(w.candles)
}

// Cap returns the fixed capacity of the window.
func (w *Window) Cap() int {
	return w.capacity
}

// Remaining returns how many candles are still missing before the window
// is full.
func (w *Window) Remaining() int {
	return w.capacity - len(w.candles)
}
