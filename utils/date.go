package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/radhian/payment-statistics/consts"
)

var ErrInvalidDate = errors.New("invalid date format")

// DayStart truncates t to midnight in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayRange returns [day 00:00:00, day+1 00:00:00).
func DayRange(day time.Time, loc *time.Location) (time.Time, time.Time) {
	start := DayStart(day, loc)
	return start, start.AddDate(0, 0, 1)
}

func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	date, err := time.ParseInLocation(consts.DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrInvalidDate, value, err)
	}
	return date, nil
}

// ParseDates parses, normalizes and de-duplicates a list of YYYY-MM-DD dates.
func ParseDates(values []string, loc *time.Location) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		date, err := ParseDate(v, loc)
		if err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return UniqueDays(dates, loc), nil
}

// UniqueDays normalizes every date to its day start and returns them sorted without duplicates.
func UniqueDays(dates []time.Time, loc *time.Location) []time.Time {
	seen := make(map[string]bool, len(dates))
	result := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := DayStart(d, loc)
		key := FormatDate(day)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, day)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result
}

func FormatDate(t time.Time) string {
	return t.Format(consts.DateLayout)
}

func FormatDates(dates []time.Time) []string {
	result := make([]string, 0, len(dates))
	for _, d := range dates {
		result = append(result, FormatDate(d))
	}
	return result
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
