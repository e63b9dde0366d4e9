package tle

import (
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	// A stray line before the first entry must not hide it.
	input := "garbage\n" + issTLE + "\n" + starlinkTLE

	entries, err := Parse(strings.NewReader(input), testLogger)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	iss := entries[0]
	if iss.NORADID != 25544 || iss.Name != "ISS (ZARYA)" {
		t.Errorf("first entry = %d %q", iss.NORADID, iss.Name)
	}
	if want := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC); !iss.Epoch.Equal(want) {
		t.Errorf("epoch = %v, want %v", iss.Epoch, want)
	}
	if iss.MeanMotion != 15.5 {
		t.Errorf("mean motion = %v, want 15.5", iss.MeanMotion)
	}
	if entries[1].MeanMotion != 15.06 {
		t.Errorf("second mean motion = %v, want 15.06", entries[1].MeanMotion)
	}
}

func TestParseEpoch(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"24100.50000000", time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)},
		{"99001.00000000", time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"57001.25000000", time.Date(1957, 1, 1, 6, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseEpoch(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseEpoch(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := parseEpoch("24"); err == nil {
		t.Error("expected error for short epoch")
	}
}

func TestNewDatasetEpochRange(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.Add(48 * time.Hour)
	ds := NewDataset("test", time.Now(), []TLEEntry{{NORADID: 1, Epoch: b}, {NORADID: 2, Epoch: a}})

	if !ds.EpochRange.Min.Equal(a) || !ds.EpochRange.Max.Equal(b) {
		t.Errorf("epoch range = %v..%v, want %v..%v", ds.EpochRange.Min, ds.EpochRange.Max, a, b)
	}
}
