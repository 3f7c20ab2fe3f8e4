package schedule

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 6, 5, 15, 30, 0, 0, time.UTC)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-06-03", "2024-06-03"},
		{"  2024-06-03 ", "2024-06-03"},
		{"", "2024-06-05"},
		{"not a date", "2024-06-05"},
		{"2024-02-30", "2024-06-05"},
		{"2024-06-03T09:00:00Z", "2024-06-03"},
		{"2024-06-03T23:30:00-05:00", "2024-06-04"},
		{"2024-06-03T09:00", "2024-06-03"},
		{"06/03/2024", "2024-06-03"},
		{"Jun 3 2024", "2024-06-03"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeDate(tt.input, fixedNow); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveDayBounds(t *testing.T) {
	r := ResolveDay("2024-06-03", fixedNow)

	if got := r.Start.Format(ISOLayout); got != "2024-06-03T00:00:00.000Z" {
		t.Errorf("start = %q, want %q", got, "2024-06-03T00:00:00.000Z")
	}
	if got := r.End.Format(ISOLayout); got != "2024-06-03T23:59:59.999Z" {
		t.Errorf("end = %q, want %q", got, "2024-06-03T23:59:59.999Z")
	}
	if !r.EndInclusive {
		t.Error("day range should include its end")
	}
	if !r.Contains(r.End) {
		t.Error("day range should contain 23:59:59.999")
	}
	if r.Contains(r.End.Add(time.Millisecond)) {
		t.Error("day range should not contain next midnight")
	}
	if !r.Contains(r.Start) {
		t.Error("day range should contain its start")
	}
}

func TestResolveDayDefaultsToToday(t *testing.T) {
	r := ResolveDay("", fixedNow)
	if got := r.Start.Format(DateLayout); got != "2024-06-05" {
		t.Errorf("start date = %q, want %q", got, "2024-06-05")
	}
}

func TestResolveWeekIsHalfOpen(t *testing.T) {
	r := ResolveWeek("2024-06-03", fixedNow)

	if got := r.End.Sub(r.Start); got != 168*time.Hour {
		t.Errorf("week length = %v, want 168h", got)
	}
	if r.EndInclusive {
		t.Error("week range should exclude its end")
	}

	edge := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	if r.Contains(edge) {
		t.Errorf("week range should not contain %v", edge)
	}
	if !r.Contains(edge.Add(-time.Millisecond)) {
		t.Error("week range should contain the last millisecond of day 7")
	}
	if r.Contains(r.Start.Add(-time.Millisecond)) {
		t.Error("week range should not contain time before start")
	}
}

func TestResolveWeekAcrossMonth(t *testing.T) {
	r := ResolveWeek("2024-02-27", fixedNow)
	if got := r.End.Format(DateLayout); got != "2024-03-05" {
		t.Errorf("end date = %q, want %q", got, "2024-03-05")
	}
}
