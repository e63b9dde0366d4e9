package tle

import "time"

// TLEEntry is one satellite's two-line element set plus the fields the
// extractor reads from it.
type TLEEntry struct {
	NORADID    int
	Name       string
	Epoch      time.Time
	MeanMotion float64 // revolutions per day
	Line1      string
	Line2      string
}

// EpochRange is the span of epochs covered by a dataset.
type EpochRange struct {
	Min time.Time
	Max time.Time
}

// TLEDataset is a complete set of TLE data from one fetch.
type TLEDataset struct {
	Source     string
	FetchedAt  time.Time
	EpochRange EpochRange
	Satellites []TLEEntry
}

// NewDataset wraps entries with their epoch range.
func NewDataset(source string, fetchedAt time.Time, entries []TLEEntry) *TLEDataset {
	ds := &TLEDataset{Source: source, FetchedAt: fetchedAt, Satellites: entries}
	for i, e := range entries {
		if i == 0 || e.Epoch.Before(ds.EpochRange.Min) {
			ds.EpochRange.Min = e.Epoch
		}
		if i == 0 || e.Epoch.After(ds.EpochRange.Max) {
			ds.EpochRange.Max = e.Epoch
		}
	}
	return ds
}

// Find returns the entry with the given catalog number.
func (ds *TLEDataset) Find(noradID int) (TLEEntry, bool) {
	for _, e := range ds.Satellites {
		if e.NORADID == noradID {
			return e, true
		}
	}
	return TLEEntry{}, false
}
