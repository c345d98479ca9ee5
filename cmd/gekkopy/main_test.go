package main

import (
	"testing"
	"time"
)

func TestParseCandleSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"60", 60, false},
		{"1", 1, false},
		{"1h", 60, false},
		{"15m", 15, false},
		{"1d", 1440, false},
		{"90s", 0, true},
		{"30s", 0, true},
		{"", 0, true},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		got, err := parseCandleSize(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Expected an error for %q, got %d", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Expected no error for %q, got %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Expected %d minutes for %q, got %d", tt.expected, tt.input, got)
		}
	}
}

func TestParseTimeFlag(t *testing.T) {
	ts, err := parseTimeFlag("2018-01-02T03:04:05")
	if err != nil {
		t.Fatalf("parse datetime: %v", err)
	}
	if !ts.Equal(time.Date(2018, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("Expected 2018-01-02T03:04:05, got %s", ts)
	}

	ts, err = parseTimeFlag("2018-01-02")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if !ts.Equal(time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected 2018-01-02 midnight, got %s", ts)
	}

	ts, err = parseTimeFlag("")
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("Expected the zero time for an empty flag, got %s", ts)
	}

	if _, err := parseTimeFlag("January 1st"); err == nil {
		t.Error("Expected an error for an unparseable time")
	}
}

func TestNewAppCommands(t *testing.T) {
	app := newApp()

	expected := []string{"serve", "dataranges", "candles", "backtest"}
	for _, name := range expected {
		if app.Command(name) == nil {
			t.Errorf("Expected command %s to be registered", name)
		}
	}
}
