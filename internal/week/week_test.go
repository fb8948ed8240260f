package week

import (
	"testing"
	"time"
)

func TestStartAnchorsToMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday itself", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), "2025-06-02"},
		{"midweek", time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC), "2025-06-02"},
		{"saturday", time.Date(2025, 6, 7, 23, 59, 0, 0, time.UTC), "2025-06-02"},
		{"sunday", time.Date(2025, 6, 8, 0, 0, 1, 0, time.UTC), "2025-06-02"},
		{"next monday", time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), "2025-06-09"},
		{"year boundary", time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), "2025-12-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Start(tt.in); got != tt.want {
				t.Errorf("Start(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStartTimeIsMidnight(t *testing.T) {
	in := time.Date(2025, 6, 5, 18, 45, 12, 0, time.UTC)
	got := StartTime(in)

	if got.Weekday() != time.Monday {
		t.Errorf("weekday = %v, want Monday", got.Weekday())
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("expected midnight, got %v", got)
	}
}

func TestStartStableAcrossWeek(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	want := Start(monday)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		if got := Start(day); got != want {
			t.Errorf("Start(%v) = %q, want %q", day, got, want)
		}
	}
}
