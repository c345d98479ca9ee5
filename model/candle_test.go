package model

import (
	"math"
	"testing"
)

func TestCandleFromRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []float64
		want    Candle
		wantErr bool
	}{
		{
			name: "valid row",
			row:  []float64{100, 110, 95, 105, 1200, 42},
			want: Candle{Open: 100, High: 110, Low: 95, Close: 105, Volume: 1200, Trades: 42},
		},
		{
			name: "fractional trades truncate",
			row:  []float64{1, 2, 0.5, 1.5, 10, 7.9},
			want: Candle{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10, Trades: 7},
		},
		{
			name:    "too short",
			row:     []float64{100, 110, 95, 105, 1200},
			wantErr: true,
		},
		{
			name:    "too long",
			row:     []float64{100, 110, 95, 105, 1200, 42, 1},
			wantErr: true,
		},
		{
			name:    "empty row",
			row:     []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CandleFromRow(tt.row)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got candle %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCandleRowRoundtrip(t *testing.T) {
	original := Candle{Open: 99.5, High: 101.25, Low: 98, Close: 100.75, Volume: 3400.5, Trades: 17}

	row := original.Row()
	if len(row) != NumColumns {
		t.Fatalf("row has %d values, expected %d", len(row), NumColumns)
	}

	decoded, err := CandleFromRow(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip changed candle: got %+v, want %+v", decoded, original)
	}
}

func TestCandlesCloses(t *testing.T) {
	candles := Candles{
		{Close: 100},
		{Close: 101.5},
		{Close: 99.25},
	}

	closes := candles.Closes()
	want := []float64{100, 101.5, 99.25}
	if len(closes) != len(want) {
		t.Fatalf("got %d closes, want %d", len(closes), len(want))
	}
	for i := range want {
		if closes[i] != want[i] {
			t.Errorf("closes[%d] = %v, want %v", i, closes[i], want[i])
		}
	}
}

func TestCandlesSum(t *testing.T) {
	candles := Candles{
		{Open: 1, High: 2, Low: 3, Close: 4, Volume: 5, Trades: 6},
		{Open: 0.5, High: 0.5, Low: 0.5, Close: 0.5, Volume: 1, Trades: 2},
	}

	got := candles.Sum()
	want := 21.0 + 5.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Sum() = %v, want %v", got, want)
	}

	if got := (Candles{}).Sum(); got != 0 {
		t.Errorf("empty Sum() = %v, want 0", got)
	}
}
