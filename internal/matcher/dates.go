package matcher

import (
	"fmt"
	"time"
)

// instantLayouts are probed in order when parsing a date/time string.
// ISO-8601 forms first, then the locale forms the framework accepts.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02 Jan 2006",
}

// ParseInstant converts a date/time representation into a comparable
// instant. Accepts time.Time directly or any of the supported string
// layouts. Strings without an explicit zone are taken as UTC.
func ParseInstant(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		for _, layout := range instantLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", d)
	default:
		return time.Time{}, fmt.Errorf("not a date: %s", format(v))
	}
}

// Before reports whether a is chronologically before b.
func Before(a, b any) Result {
	at, bt, res := parsePair(a, b)
	if !res.Matched {
		return res
	}
	if at.Before(bt) {
		return ok()
	}
	return failf("%s is not before %s", at.Format(time.RFC3339), bt.Format(time.RFC3339))
}

// After reports whether a is chronologically after b.
func After(a, b any) Result {
	at, bt, res := parsePair(a, b)
	if !res.Matched {
		return res
	}
	if at.After(bt) {
		return ok()
	}
	return failf("%s is not after %s", at.Format(time.RFC3339), bt.Format(time.RFC3339))
}

// SameDay reports whether a and b fall on the same calendar date,
// ignoring time of day. Both instants are compared in UTC.
func SameDay(a, b any) Result {
	at, bt, res := parsePair(a, b)
	if !res.Matched {
		return res
	}
	ay, am, ad := at.UTC().Date()
	by, bm, bd := bt.UTC().Date()
	if ay == by && am == bm && ad == bd {
		return ok()
	}
	return failf("%s and %s are different days",
		at.UTC().Format("2006-01-02"), bt.UTC().Format("2006-01-02"))
}

// BetweenDates reports whether lo <= v <= hi. Both bounds are inclusive.
func BetweenDates(v, lo, hi any) Result {
	vt, err := ParseInstant(v)
	if err != nil {
		return failf("%v", err)
	}
	lot, hit, res := parsePair(lo, hi)
	if !res.Matched {
		return res
	}
	if lot.After(hit) {
		return failf("lower bound %s exceeds upper bound %s",
			lot.Format(time.RFC3339), hit.Format(time.RFC3339))
	}
	if !vt.Before(lot) && !vt.After(hit) {
		return ok()
	}
	return failf("%s is outside [%s, %s]",
		vt.Format(time.RFC3339), lot.Format(time.RFC3339), hit.Format(time.RFC3339))
}

func parsePair(a, b any) (time.Time, time.Time, Result) {
	at, err := ParseInstant(a)
	if err != nil {
		return time.Time{}, time.Time{}, failf("%v", err)
	}
	bt, err := ParseInstant(b)
	if err != nil {
		return time.Time{}, time.Time{}, failf("%v", err)
	}
	return at, bt, ok()
}
