package domain

import (
	"errors"
	"testing"
	"time"
)

func TestComputeExpiry(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		unit  DurationUnit
		count int
		want  time.Time
	}{
		{"one week", DurationUnitWeek, 1, time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)},
		{"two weeks", DurationUnitWeek, 2, time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)},
		{"one month", DurationUnitMonth, 1, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"six months", DurationUnitMonth, 6, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)},
		{"twelve months crosses year", DurationUnitMonth, 12, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeExpiry(start, tc.unit, tc.count)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
			if !got.After(start) {
				t.Errorf("expiry %v not after start %v", got, start)
			}
		})
	}
}

func TestComputeExpiry_MonthEndNormalizes(t *testing.T) {
	// AddDate semantics: Jan 31 + 1 month lands in early March, it is not
	// clamped to Feb 29.
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	got, err := ComputeExpiry(start, DurationUnitMonth, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestComputeExpiry_Invalid(t *testing.T) {
	start := time.Now()
	if _, err := ComputeExpiry(start, DurationUnitMonth, 0); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("count 0: got %v", err)
	}
	if _, err := ComputeExpiry(start, DurationUnitWeek, -1); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("negative count: got %v", err)
	}
	if _, err := ComputeExpiry(start, DurationUnit("day"), 3); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("unknown unit: got %v", err)
	}
}

func TestParseDurationCode(t *testing.T) {
	tests := []struct {
		code      string
		wantCount int
		wantUnit  DurationUnit
		wantErr   bool
	}{
		{"2-weeks", 2, DurationUnitWeek, false},
		{"1-week", 1, DurationUnitWeek, false},
		{"1-month", 1, DurationUnitMonth, false},
		{"6-months", 6, DurationUnitMonth, false},
		{"12-months", 12, DurationUnitMonth, false},
		{"abc", 0, "", true},
		{"", 0, "", true},
		{"-1-week", 0, "", true},
		{"3-day", 0, "", true},
		{"3-days", 0, "", true},
		{"0-week", 0, "", true},
		{"week-2", 0, "", true},
		{"2-", 0, "", true},
		{"-week", 0, "", true},
		{"2 weeks", 0, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			count, unit, err := ParseDurationCode(tc.code)
			if tc.wantErr {
				if !errors.Is(err, ErrMalformedDurationCode) {
					t.Fatalf("want ErrMalformedDurationCode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if count != tc.wantCount || unit != tc.wantUnit {
				t.Errorf("got (%d, %s), want (%d, %s)", count, unit, tc.wantCount, tc.wantUnit)
			}
		})
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNotFound, "NotFoundError"},
		{ErrAlreadyProcessed, "AlreadyProcessedError"},
		{ErrUnknownPlan, "UnknownPlanError"},
		{ErrInvalidDuration, "InvalidDurationError"},
		{ErrMalformedDurationCode, "MalformedDurationCode"},
		{ErrUnauthorized, "UnauthorizedError"},
		{ErrInvalidArgument, "InvalidArgumentError"},
		{ErrStoreCommit, "StoreCommitError"},
		{errors.New("anything else"), "StoreCommitError"},
	}
	for _, tc := range tests {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Errorf("ErrorKind(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}
