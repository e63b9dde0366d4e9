package tle

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Parse reads 3-line NORAD TLE format from r.
// Malformed entries are skipped with a warning log.
func Parse(r io.Reader, logger *slog.Logger) ([]TLEEntry, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r\n "); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading TLE data: %w", err)
	}

	var entries []TLEEntry
	for i := 0; i+2 < len(lines); {
		name, line1, line2 := lines[i], lines[i+1], lines[i+2]

		if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
			// Resynchronise on the next line.
			logger.Warn("skipping malformed TLE entry", "line_index", i, "name", name)
			i++
			continue
		}
		i += 3

		entry, err := parseEntry(name, line1, line2)
		if err != nil {
			logger.Warn("skipping TLE entry", "name", strings.TrimSpace(name), "error", err)
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// parseEntry decodes the columns of one element set.
func parseEntry(name, line1, line2 string) (TLEEntry, error) {
	if len(line1) < 32 {
		return TLEEntry{}, fmt.Errorf("line1 too short (%d chars)", len(line1))
	}
	if len(line2) < 63 {
		return TLEEntry{}, fmt.Errorf("line2 too short (%d chars)", len(line2))
	}

	// Line 1 cols 3-7: catalog number.
	noradStr := strings.TrimSpace(line1[2:7])
	noradID, err := strconv.Atoi(noradStr)
	if err != nil {
		return TLEEntry{}, fmt.Errorf("invalid NORAD ID %q: %w", noradStr, err)
	}

	// Line 1 cols 19-32: epoch.
	epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
	if err != nil {
		return TLEEntry{}, err
	}

	// Line 2 cols 53-63: mean motion in rev/day.
	mmStr := strings.TrimSpace(line2[52:63])
	meanMotion, err := strconv.ParseFloat(mmStr, 64)
	if err != nil || meanMotion <= 0 {
		return TLEEntry{}, fmt.Errorf("invalid mean motion %q", mmStr)
	}

	return TLEEntry{
		NORADID:    noradID,
		Name:       strings.TrimSpace(name),
		Epoch:      epoch,
		MeanMotion: meanMotion,
		Line1:      line1,
		Line2:      line2,
	}, nil
}

// parseEpoch converts a YYDDD.DDDDDDDD epoch to time.Time.
// Years 57-99 are 19xx, 00-56 are 20xx.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch string too short: %q", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	day, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", s[2:], err)
	}

	// Day 1 is January 1st.
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return start.Add(time.Duration((day - 1) * float64(24*time.Hour))), nil
}
