package schedule

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the YYYY-MM-DD form used for dates on the wire.
const DateLayout = "2006-01-02"

// ISOLayout formats instants the way the views expose them, always in UTC.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Range is a UTC time window. Day windows include End; week windows exclude it.
type Range struct {
	Start        time.Time
	End          time.Time
	EndInclusive bool
}

// Contains reports whether t falls inside the window.
func (r Range) Contains(t time.Time) bool {
	if t.Before(r.Start) {
		return false
	}
	if r.EndInclusive {
		return !t.After(r.End)
	}
	return t.Before(r.End)
}

var ymdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var lenientLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"1/2/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// NormalizeDate reduces input to a YYYY-MM-DD string. Input that already has that
// shape is returned unchanged; anything else is parsed leniently and truncated to its
// UTC date. Empty or unparseable input, including impossible calendar dates such
// as 2024-02-30, yields now's UTC date.
func NormalizeDate(input string, now time.Time) string {
	s := strings.TrimSpace(input)
	if ymdPattern.MatchString(s) {
		if _, err := time.Parse(DateLayout, s); err == nil {
			return s
		}
		return now.UTC().Format(DateLayout)
	}
	if s != "" {
		for _, layout := range lenientLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC().Format(DateLayout)
			}
		}
	}
	return now.UTC().Format(DateLayout)
}

// dateStart parses a normalised date as UTC midnight.
func dateStart(ymd string, now time.Time) time.Time {
	t, err := time.ParseInLocation(DateLayout, ymd, time.UTC)
	if err != nil {
		n := now.UTC()
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t
}

// ResolveDay returns [date 00:00:00.000Z, date 23:59:59.999Z].
func ResolveDay(input string, now time.Time) Range {
	start := dateStart(NormalizeDate(input, now), now)
	return Range{
		Start:        start,
		End:          start.Add(24*time.Hour - time.Millisecond),
		EndInclusive: true,
	}
}

// ResolveWeek returns [date 00:00Z, date+7d).
func ResolveWeek(input string, now time.Time) Range {
	start := dateStart(NormalizeDate(input, now), now)
	return Range{
		Start: start,
		End:   start.Add(7 * 24 * time.Hour),
	}
}
