// Package strategy contains the serving-side core: the strategy contract,
// the per-strategy candle window and the registry the HTTP layer resolves
// strategy names against.
package strategy

import "github.com/mariushelf/gekkopy/model"

// ProtocolVersion is the version of the serving protocol reported to
// engine-side adapters.
const ProtocolVersion = 1

// Advice is a trading decision signal.
type Advice string

// Admissible advice values.
const (
	Long  Advice = "long"
	Short Advice = "short"
	Hold  Advice = "hold"
)

// Valid reports whether the advice is one of Long, Short or Hold.
func (a Advice) Valid() bool {
	switch a {
	case Long, Short, Hold:
		return true
	}
	return false
}

// Strategy is the contract every served strategy implements.
//
// WindowSize is the number of candles the strategy needs to produce a
// single advice and must stay constant for the lifetime of a
// registration. Advice receives exactly WindowSize candles, oldest
// first, and returns one of Long, Short or Hold. The window slice is the
// strategy's own copy, later pushes never mutate it.
type Strategy interface {
	WindowSize() int
	Advice(window model.Candles) Advice
}
