// Package daywindow turns a caller's notion of "a day" into an absolute UTC
// range, so per-day queries follow the civil calendar of a named zone rather
// than the UTC calendar the store's timestamps are kept in.
package daywindow

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Resolution is the finest timestamp step the store keeps. End of a window is
// the last representable instant before the next local midnight.
const Resolution = time.Microsecond

var (
	ErrInvalidDate = errors.New("invalid date input")
	ErrUnknownZone = errors.New("unknown time zone")
)

// Window is a local day in UTC with both ends inclusive. End is the last
// representable instant at Resolution, so End.Sub(Start) is one Resolution
// short of the day's length; use Span for the length.
type Window struct {
	Start time.Time
	End   time.Time
}

// Span is the width of the window with both ends counted, which is the length
// of the local day (23h, 24h or 25h).
func (w Window) Span() time.Duration {
	return w.End.Sub(w.Start) + Resolution
}

// Contains reports whether t falls within the window, ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Resolve interprets input in the named zone and returns the UTC bounds of the
// local calendar day it falls on.
func Resolve(input, zoneName string) (Window, error) {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownZone, zoneName)
	}
	return ResolveIn(input, loc)
}

func ResolveIn(input string, loc *time.Location) (Window, error) {
	local, err := parseLocal(strings.TrimSpace(input), loc)
	if err != nil {
		return Window{}, err
	}
	return ForDay(local), nil
}

// ForDay returns the window of the local day t falls on, in t's location.
func ForDay(t time.Time) Window {
	y, m, d := t.Date()
	loc := t.Location()

	// time.Date normalises d+1 across month ends and applies the zone's rules
	// to each midnight separately, so DST days come out shorter or longer.
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	next := time.Date(y, m, d+1, 0, 0, 0, 0, loc)

	return Window{
		Start: start.UTC(),
		End:   next.Add(-Resolution).UTC(),
	}
}

var wallLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseLocal(input string, loc *time.Location) (time.Time, error) {
	if input == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	// Absolute instants carry their own offset; shift them into the zone.
	if t, err := time.Parse(time.RFC3339Nano, input); err == nil {
		return t.In(loc), nil
	}

	for _, layout := range wallLayouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
}
