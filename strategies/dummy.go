// Package strategies ships ready made trading strategies for the
// strategy server.
package strategies

import (
	"math"

	"github.com/mariushelf/gekkopy/model"
	"github.com/mariushelf/gekkopy/strategy"
)

// DefaultDummyWindow is the window size Dummy uses when none is set.
const DefaultDummyWindow = 5

// Dummy derives its advice from the sum over the whole window. It is
// deterministic but has no predictive value, which makes it useful for
// wiring tests and protocol checks.
type Dummy struct {
	Window int
}

func (d Dummy) WindowSize() int {
	if d.Window < 1 {
		return DefaultDummyWindow
	}
	return d.Window
}

func (d Dummy) Advice(window model.Candles) strategy.Advice {
	m := int(math.Ceil(window.Sum())) % 3
	if m < 0 {
		m += 3
	}
	switch m {
	case 1:
		return strategy.Long
	case 2:
		return strategy.Short
	default:
		return strategy.Hold
	}
}
