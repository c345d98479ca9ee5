package strategy

import (
	"fmt"
	"sync"

	"github.com/mariushelf/gekkopy/model"
)

// Session is the serving state of one registered strategy: its candle
// window and the most recently computed advice. A session lives as long
// as its registration. Ingests into the same session are serialized,
// sessions of different strategies do not block each other.
type Session struct {
	name  string
	strat Strategy

	mu         sync.Mutex
	window     *Window
	lastAdvice Advice
}

func newSession(name string, strat Strategy) *Session {
	return &Session{
		name:   name,
		strat:  strat,
		window: NewWindow(strat.WindowSize()),
	}
}

// Name returns the name the strategy is registered under.
func (s *Session) Name() string {
	return s.name
}

// WindowSize returns the look-back length of the served strategy.
func (s *Session) WindowSize() int {
	return s.window.Cap()
}

// Ingest pushes the given candles into the window in order. When the
// window is full after the final push, the strategy is invoked on the
// snapshot and its advice is returned with remaining == 0. While the
// window is still warming up the strategy is not invoked and remaining
// reports how many candles are missing. Candles must not be empty.
func (s *Session) Ingest(candles model.Candles) (advice Advice, remaining int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		snapshot model.Candles
		full     bool
	)
	for _, c := range candles {
		snapshot, full = s.window.Push(c)
	}
	if !full {
		return "", s.window.Remaining(), nil
	}

	advice = s.strat.Advice(snapshot)
	if !advice.Valid() {
		return "", 0, fmt.Errorf("strategy %q returned invalid advice %q", s.name, advice)
	}
	s.lastAdvice = advice
	return advice, 0, nil
}

// LastAdvice returns the most recently computed advice and whether the
// strategy has produced one yet.
func (s *Session) LastAdvice() (Advice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAdvice, s.lastAdvice != ""
}
