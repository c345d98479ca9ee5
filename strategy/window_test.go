package strategy

import (
	"testing"

	"github.com/mariushelf/gekkopy/model"
)

func candleWithClose(close float64) model.Candle {
	return model.Candle{Open: close - 1, High: close + 1, Low: close - 2, Close: close, Volume: 10, Trades: 1}
}

func TestWindowWarmup(t *testing.T) {
	window := NewWindow(3)

	for i := 0; i < 2; i++ {
		snapshot, ok := window.Push(candleWithClose(float64(i)))
		if ok {
			t.Fatalf("push %d: window reported full at %d/%d candles", i, window.Len(), window.Cap())
		}
		if snapshot != nil {
			t.Fatalf("push %d: expected nil snapshot during warmup, got %d candles", i, len(snapshot))
		}
	}

	if window.Len() != 2 {
		t.Errorf("Len() = %d, want 2", window.Len())
	}
	if window.Remaining() != 1 {
		t.Errorf("Remaining() = %d, want 1", window.Remaining())
	}
}

func TestWindowFirstFull(t *testing.T) {
	window := NewWindow(3)

	window.Push(candleWithClose(1))
	window.Push(candleWithClose(2))
	snapshot, ok := window.Push(candleWithClose(3))

	if !ok {
		t.Fatal("window not full after pushing capacity candles")
	}
	if len(snapshot) != 3 {
		t.Fatalf("snapshot has %d candles, want 3", len(snapshot))
	}
	for i, want := range []float64{1, 2, 3} {
		if snapshot[i].Close != want {
			t.Errorf("snapshot[%d].Close = %v, want %v (oldest first)", i, snapshot[i].Close, want)
		}
	}
	if window.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", window.Remaining())
	}
}

func TestWindowEvictsOldest(t *testing.T) {
	window := NewWindow(3)

	for i := 1; i <= 5; i++ {
		window.Push(candleWithClose(float64(i)))
	}

	snapshot, ok := window.Push(candleWithClose(6))
	if !ok {
		t.Fatal("window not full after exceeding capacity")
	}
	for i, want := range []float64{4, 5, 6} {
		if snapshot[i].Close != want {
			t.Errorf("snapshot[%d].Close = %v, want %v", i, snapshot[i].Close, want)
		}
	}
	if window.Len() != 3 {
		t.Errorf("Len() = %d, want 3 after eviction", window.Len())
	}
}

func TestWindowSnapshotIsolation(t *testing.T) {
	window := NewWindow(2)

	window.Push(candleWithClose(1))
	first, _ := window.Push(candleWithClose(2))
	second, _ := window.Push(candleWithClose(3))

	if first[0].Close != 1 || first[1].Close != 2 {
		t.Errorf("earlier snapshot mutated by later push: %+v", first)
	}

	first[0].Close = -99
	if second[0].Close != 2 {
		t.Errorf("snapshots share backing storage: %+v", second)
	}

	third, _ := window.Push(candleWithClose(4))
	if third[0].Close != 3 || third[1].Close != 4 {
		t.Errorf("window corrupted by snapshot mutation: %+v", third)
	}
}

func TestWindowCapacityOne(t *testing.T) {
	window := NewWindow(1)

	snapshot, ok := window.Push(candleWithClose(7))
	if !ok {
		t.Fatal("capacity-1 window not full after first push")
	}
	if len(snapshot) != 1 || snapshot[0].Close != 7 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}

	snapshot, ok = window.Push(candleWithClose(8))
	if !ok || snapshot[0].Close != 8 {
		t.Fatalf("capacity-1 window did not slide, snapshot %+v ok %v", snapshot, ok)
	}
}

func BenchmarkWindowPush(b *testing.B) {
	window := NewWindow(200)
	candle := candleWithClose(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		window.Push(candle)
	}
}
