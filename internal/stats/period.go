// Package stats computes period-bucketed and corpus-wide statistics
// over the flattened conversation dataset.
package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a time-bucketing granularity for the over-time statistics.
type Period string

const (
	PeriodHourly       Period = "hourly"
	PeriodDaily        Period = "daily"
	PeriodWeekly       Period = "weekly"
	PeriodMonthly      Period = "monthly"
	PeriodQuarterly    Period = "quarterly"
	PeriodSemiAnnually Period = "semi-annually"
	PeriodYearly       Period = "yearly"
)

// Periods lists every supported granularity, coarsest-last.
var Periods = []Period{
	PeriodHourly, PeriodDaily, PeriodWeekly, PeriodMonthly,
	PeriodQuarterly, PeriodSemiAnnually, PeriodYearly,
}

// ParsePeriod normalizes and validates a user-supplied period name.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Periods {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid period %q", s)
}

// Key returns the canonical bucket key for t under this granularity.
// Keys from different granularities are not mutually comparable.
func (p Period) Key(t time.Time) string {
	switch p {
	case PeriodHourly:
		return t.Format("2006-01-02 15:00")
	case PeriodDaily:
		return t.Format("2006-01-02")
	case PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case PeriodMonthly:
		return t.Format("2006-01")
	case PeriodQuarterly:
		quarter := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%d-Q%d", t.Year(), quarter)
	case PeriodSemiAnnually:
		half := 1
		if t.Month() > time.June {
			half = 2
		}
		return fmt.Sprintf("%d-H%d", t.Year(), half)
	case PeriodYearly:
		return t.Format("2006")
	default:
		return t.Format("2006-01")
	}
}

// ParseKey maps a bucket key back to an orderable timestamp using the
// same granularity that produced it. Unparseable keys return the zero
// time so they sort first, deterministically, instead of failing.
func (p Period) ParseKey(key string) time.Time {
	switch p {
	case PeriodHourly:
		t, err := time.ParseInLocation("2006-01-02 15:04", key, time.UTC)
		if err != nil {
			return time.Time{}
		}
		return t
	case PeriodDaily:
		t, err := time.ParseInLocation("2006-01-02", key, time.UTC)
		if err != nil {
			return time.Time{}
		}
		return t
	case PeriodWeekly:
		year, week, ok := splitNumericKey(key, "-W")
		if !ok {
			return time.Time{}
		}
		return isoWeekStart(year, week)
	case PeriodMonthly:
		t, err := time.ParseInLocation("2006-01", key, time.UTC)
		if err != nil {
			return time.Time{}
		}
		return t
	case PeriodQuarterly:
		year, quarter, ok := splitNumericKey(key, "-Q")
		if !ok || quarter < 1 || quarter > 4 {
			return time.Time{}
		}
		return time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	case PeriodSemiAnnually:
		year, half, ok := splitNumericKey(key, "-H")
		if !ok || half < 1 || half > 2 {
			return time.Time{}
		}
		month := time.January
		if half == 2 {
			month = time.July
		}
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	case PeriodYearly:
		t, err := time.ParseInLocation("2006", key, time.UTC)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}

func splitNumericKey(key, sep string) (int, int, bool) {
	left, right, found := strings.Cut(key, sep)
	if !found {
		return 0, 0, false
	}
	a, err := strconv.Atoi(left)
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(right)
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// isoWeekStart returns the Monday of the given ISO week. Jan 4 is
// always in ISO week 1 of its year.
func isoWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := jan4.AddDate(0, 0, 1-weekday)
	return monday.AddDate(0, 0, (week-1)*7)
}
