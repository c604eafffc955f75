// Package partition maintains the monthly RANGE partitions of the
// bookings table.  Planning is pure and unit-tested; execution is a
// thin layer of ALTER TABLE statements driven by the maintenance
// daemon, never by request handling.
package partition

import (
	"fmt"
	"time"
)

// overflowPartition is the catch-all partition holding any date outside
// the managed window.  It is never dropped: its existence is what
// guarantees that an insert can never fail for lack of a partition.
const overflowPartition = "pmax"

// Partition describes one managed monthly partition.  Name is pYYYYMM
// and UpperBound is the exclusive upper date bound (the first day of
// the following month) in YYYY-MM-DD form.
type Partition struct {
	Name       string
	UpperBound string
}

// monthStart truncates a time to the first day of its month in UTC.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// nameFor builds the partition name covering the month of t.
func nameFor(t time.Time) string {
	return fmt.Sprintf("p%04d%02d", t.Year(), int(t.Month()))
}

// ParseName recovers the covered month from a managed partition name.
// It returns false for the overflow partition and anything else that is
// not a pYYYYMM name.
func ParseName(name string) (time.Time, bool) {
	if len(name) != 7 || name[0] != 'p' {
		return time.Time{}, false
	}
	var year, month int
	if _, err := fmt.Sscanf(name[1:], "%4d%2d", &year, &month); err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}

// PlanUpcoming returns the partitions that should exist for the month
// of now plus monthsAhead further months, oldest first.
func PlanUpcoming(now time.Time, monthsAhead int) []Partition {
	start := monthStart(now)
	out := make([]Partition, 0, monthsAhead+1)
	for i := 0; i <= monthsAhead; i++ {
		m := start.AddDate(0, i, 0)
		out = append(out, Partition{
			Name:       nameFor(m),
			UpperBound: m.AddDate(0, 1, 0).Format("2006-01-02"),
		})
	}
	return out
}

// Missing filters wanted down to the partitions that do not exist yet
// and can still be carved out of the overflow partition.  A monthly
// partition can only be split off pmax when its bound lies above every
// existing managed bound, so months that slipped below the newest
// existing partition are skipped.
func Missing(existing []string, wanted []Partition) []Partition {
	have := make(map[string]struct{}, len(existing))
	var newest time.Time
	for _, name := range existing {
		have[name] = struct{}{}
		if m, ok := ParseName(name); ok && m.After(newest) {
			newest = m
		}
	}
	out := make([]Partition, 0, len(wanted))
	for _, p := range wanted {
		if _, ok := have[p.Name]; ok {
			continue
		}
		if m, _ := ParseName(p.Name); !newest.IsZero() && !m.After(newest) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Expired reports whether a managed partition's entire date range lies
// before the retention cutoff (the first day of the month
// retentionMonths before now).  The overflow partition never expires.
func Expired(name string, now time.Time, retentionMonths int) bool {
	m, ok := ParseName(name)
	if !ok {
		return false
	}
	cutoff := monthStart(now).AddDate(0, -retentionMonths, 0)
	// The partition covers [m, m+1month); it is fully expired once its
	// exclusive upper bound is at or before the cutoff.
	return !m.AddDate(0, 1, 0).After(cutoff)
}
