// Package timerange provides pure helpers for comparing half-open time
// intervals on a single day.  Bookings store their start and end as
// zero-padded HH:MM:SS clock strings, which order lexically, so the
// overlap test works directly on the stored representation.
package timerange

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidClock is returned when a clock string cannot be parsed as a
// time of day.
var ErrInvalidClock = errors.New("invalid clock value")

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// share at least one instant.  Touching endpoints do not overlap.  The
// test holds for any ordered representation of a time of day: clock
// strings, seconds since midnight, and so on.
func Overlaps[T cmp.Ordered](s1, e1, s2, e2 T) bool {
	return s1 < e2 && e1 > s2
}

// NormalizeClock parses a time-of-day string in HH:MM or HH:MM:SS form
// and returns the canonical zero-padded HH:MM:SS representation.  The
// canonical form compares lexically in chronological order, which is
// what the repository layer relies on.
func NormalizeClock(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if len(parts) == 2 {
		parts = append(parts, "0")
	}
	nums := make([]int, 3)
	for i, p := range parts {
		if p == "" || len(p) > 2 {
			return "", fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		nums[i] = n
	}
	if nums[0] > 23 || nums[1] > 59 || nums[2] > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", nums[0], nums[1], nums[2]), nil
}

// ClockToSeconds converts a canonical HH:MM:SS clock string to seconds
// since midnight.  It assumes the input was produced by NormalizeClock.
func ClockToSeconds(s string) (int, error) {
	canon, err := NormalizeClock(s)
	if err != nil {
		return 0, err
	}
	h, _ := strconv.Atoi(canon[0:2])
	m, _ := strconv.Atoi(canon[3:5])
	sec, _ := strconv.Atoi(canon[6:8])
	return h*3600 + m*60 + sec, nil
}
