package strategies

import (
	"github.com/markcheno/go-talib"

	"github.com/mariushelf/gekkopy/model"
	"github.com/mariushelf/gekkopy/strategy"
)

// Default EMA periods, the classic MACD pair.
const (
	DefaultFastPeriod = 12
	DefaultSlowPeriod = 26
)

// EMACross goes long while the fast EMA of the close is above the slow
// EMA and short while it is below. Fast must be smaller than Slow, zero
// values fall back to the defaults.
type EMACross struct {
	Fast int
	Slow int
}

func (e EMACross) fast() int {
	if e.Fast < 1 {
		return DefaultFastPeriod
	}
	return e.Fast
}

func (e EMACross) slow() int {
	if e.Slow < 1 {
		return DefaultSlowPeriod
	}
	return e.Slow
}

// WindowSize requests twice the slow period so the EMAs have settled
// before the first advice.
func (e EMACross) WindowSize() int {
	return e.slow() * 2
}

func (e EMACross) Advice(window model.Candles) strategy.Advice {
	closes := window.Closes()
	fast := talib.Ema(closes, e.fast())
	slow := talib.Ema(closes, e.slow())

	last := len(closes) - 1
	switch {
	case fast[last] > slow[last]:
		return strategy.Long
	case fast[last] < slow[last]:
		return strategy.Short
	default:
		return strategy.Hold
	}
}
