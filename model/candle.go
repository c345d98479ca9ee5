// Package model defines the candle types exchanged between the trading
// engine adapter and served strategies.
package model

import "fmt"

// NumColumns is the arity of a candle row on the wire. The column order
// is open, high, low, close, volume, trades.
const NumColumns = 6

// Candle holds OHLCV data plus the trade count for one candle interval.
type Candle struct {
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
	Trades int     `json:"trades"`
}

// CandleFromRow builds a Candle from an ordered wire row.
func CandleFromRow(row []float64) (Candle, error) {
	if len(row) != NumColumns {
		return Candle{}, fmt.Errorf("candle row has %d values, expected %d", len(row), NumColumns)
	}
	return Candle{
		Open:   row[0],
		High:   row[1],
		Low:    row[2],
		Close:  row[3],
		Volume: row[4],
		Trades: int(row[5]),
	}, nil
}

// Row returns the candle as an ordered wire row.
func (c Candle) Row() []float64 {
	return []float64{c.Open, c.High, c.Low, c.Close, c.Volume, float64(c.Trades)}
}

// Candles is an ordered candle sequence, oldest first.
type Candles []Candle

// Closes returns the close price series in candle order.
func (cs Candles) Closes() []float64 {
	closes := make([]float64, len(cs))
	for i, c := range cs {
		closes[i] = c.Close
	}
	return closes
}

// Sum adds up every column of every candle in the sequence.
func (cs Candles) Sum() float64 {
	var total float64
	for _, c := range cs {
		total += c.Open + c.High + c.Low + c.Close + c.Volume + float64(c.Trades)
	}
	return total
}
