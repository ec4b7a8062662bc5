package domain

import (
	"strconv"
	"strings"
	"time"
)

type DurationUnit string

const (
	DurationUnitWeek  DurationUnit = "week"
	DurationUnitMonth DurationUnit = "month"
)

// ComputeExpiry adds count calendar units to start. Month arithmetic follows
// time.AddDate semantics: overflowing days are normalized into the next month
// (Jan 31 + 1 month = Mar 2/3), not clamped.
func ComputeExpiry(start time.Time, unit DurationUnit, count int) (time.Time, error) {
	if count <= 0 {
		return time.Time{}, ErrInvalidDuration
	}
	switch unit {
	case DurationUnitWeek:
		return start.AddDate(0, 0, 7*count), nil
	case DurationUnitMonth:
		return start.AddDate(0, count, 0), nil
	default:
		return time.Time{}, ErrInvalidDuration
	}
}

// ParseDurationCode parses a compound banner duration token such as "2-weeks"
// or "1-month": an integer, a hyphen, and a unit word with an optional plural
// "s". Anything else is rejected; there is no silent default.
func ParseDurationCode(code string) (int, DurationUnit, error) {
	head, tail, ok := strings.Cut(code, "-")
	if !ok || head == "" || tail == "" {
		return 0, "", ErrMalformedDurationCode
	}
	for _, r := range head {
		if r < '0' || r > '9' {
			return 0, "", ErrMalformedDurationCode
		}
	}
	count, err := strconv.Atoi(head)
	if err != nil || count <= 0 {
		return 0, "", ErrMalformedDurationCode
	}
	unit := strings.TrimSuffix(tail, "s")
	switch DurationUnit(unit) {
	case DurationUnitWeek:
		return count, DurationUnitWeek, nil
	case DurationUnitMonth:
		return count, DurationUnitMonth, nil
	default:
		return 0, "", ErrMalformedDurationCode
	}
}
