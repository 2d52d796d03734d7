package rule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"remind_bot/internal/model"
)

// ErrCorrupt marks a stored rule literal that no longer parses. The
// dispatch loop skips such reminders without deleting them so an
// operator can inspect the record.
var ErrCorrupt = errors.New("unparsable rule literal")

// Next computes the next occurrence of a rule relative to now.
// It is a pure function of its arguments and uses now's location as the
// single local clock.
//
// For one_time rules the stored instant is returned unconditionally;
// the caller decides whether it is past, due, or future. For recurring
// rules the result is strictly after now, except daily-style rules
// evaluated at exactly their HH:MM boundary, which resolve to the
// following period (the boundary is exclusive on equal).
func Next(kind model.Kind, literal string, now time.Time) (time.Time, error) {
	switch kind {
	case model.KindOneTime:
		at, err := time.ParseInLocation(timeLayout, literal, now.Location())
		if err != nil {
			return time.Time{}, corrupt(kind, literal)
		}
		return at, nil

	case model.KindDaily:
		h, m, err := splitClock(literal)
		if err != nil {
			return time.Time{}, corrupt(kind, literal)
		}
		cand := atClock(now, 0, h, m)
		if !cand.After(now) {
			cand = cand.AddDate(0, 0, 1)
		}
		return cand, nil

	case model.KindWeekly:
		parts := strings.Fields(literal)
		if len(parts) != 2 {
			return time.Time{}, corrupt(kind, literal)
		}
		wd, err := strconv.Atoi(parts[0])
		if err != nil || wd < 1 || wd > 7 {
			return time.Time{}, corrupt(kind, literal)
		}
		h, m, err := splitClock(parts[1])
		if err != nil {
			return time.Time{}, corrupt(kind, literal)
		}
		offset := wd - isoWeekday(now)
		cand := atClock(now, offset, h, m)
		if offset < 0 || (offset == 0 && !cand.After(now)) {
			cand = cand.AddDate(0, 0, 7)
		}
		return cand, nil

	case model.KindMonthly:
		parts := strings.Fields(literal)
		if len(parts) != 2 {
			return time.Time{}, corrupt(kind, literal)
		}
		day, err := strconv.Atoi(parts[0])
		if err != nil || day < 1 || day > 31 {
			return time.Time{}, corrupt(kind, literal)
		}
		h, m, err := splitClock(parts[1])
		if err != nil {
			return time.Time{}, corrupt(kind, literal)
		}
		// Days past the end of a short month clamp to its last day, so a
		// day-31 rule fires on the 30th of a 30-day month instead of
		// skipping it.
		cand := monthDay(now.Year(), now.Month(), day, h, m, now.Location())
		if !cand.After(now) {
			y, mo := now.Year(), now.Month()+1
			if mo > time.December {
				mo = time.January
				y++
			}
			cand = monthDay(y, mo, day, h, m, now.Location())
		}
		return cand, nil

	case model.KindYearly:
		parts := strings.Fields(literal)
		if len(parts) != 3 {
			return time.Time{}, corrupt(kind, literal)
		}
		month, err1 := strconv.Atoi(parts[0])
		day, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, corrupt(kind, literal)
		}
		h, m, err := splitClock(parts[2])
		if err != nil {
			return time.Time{}, corrupt(kind, literal)
		}
		// Feb 29 normalizes to Mar 1 in non-leap years per time.Date.
		cand := time.Date(now.Year(), time.Month(month), day, h, m, 0, 0, now.Location())
		if !cand.After(now) {
			cand = time.Date(now.Year()+1, time.Month(month), day, h, m, 0, 0, now.Location())
		}
		return cand, nil

	case model.KindEveryHour:
		if literal != "" {
			return time.Time{}, corrupt(kind, literal)
		}
		return atClock(now, 0, now.Hour(), 0).Add(time.Hour), nil

	case model.KindEveryWeek:
		h, m := 0, 0
		if literal != "" {
			var err error
			h, m, err = splitClock(literal)
			if err != nil {
				return time.Time{}, corrupt(kind, literal)
			}
		}
		cand := atClock(now, 0, h, m)
		if !cand.After(now) {
			cand = cand.AddDate(0, 0, 7)
		}
		return cand, nil
	}
	return time.Time{}, corrupt(kind, literal)
}

func corrupt(kind model.Kind, literal string) error {
	return fmt.Errorf("%w: kind=%s literal=%q", ErrCorrupt, kind, literal)
}

// isoWeekday maps time.Weekday to the 1=Monday..7=Sunday numbering used
// in weekly literals.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// monthDay builds the candidate for a monthly rule, clamping day to the
// month's last day.
func monthDay(year int, month time.Month, day, h, m int, loc *time.Location) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, h, m, 0, 0, loc)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func splitClock(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad clock %q", s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("bad clock %q", s)
	}
	return h, m, nil
}
