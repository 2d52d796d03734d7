// Package rule implements the reminder scheduling core: parsing time
// expressions into normalized rules and computing next occurrences.
package rule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-module/carbon/v2"

	"remind_bot/internal/model"
)

// timeLayout is the serialized form of one_time literals.
const timeLayout = "2006-01-02 15:04:05"

// Typed parse failures. The command layer renders a different message
// for each.
var (
	ErrPastTime    = errors.New("time already passed")
	ErrBadTime     = errors.New("malformed time component")
	ErrUnsupported = errors.New("unsupported time or period format")
)

// The grammar alternatives, tried in declaration order. Ordering matters:
// some patterns are substrings of others (每周一 vs 每周, 每天 vs bare HH:MM).
var (
	reRelative = regexp.MustCompile(`^(\d+)(分钟后|小时后|天后)$`)
	reToday    = regexp.MustCompile(`^今天\s*(\d{1,2}):(\d{2})$`)
	reTomorrow = regexp.MustCompile(`^明天\s*(\d{1,2}):(\d{2})$`)
	reDayAfter = regexp.MustCompile(`^后天\s*(\d{1,2}):(\d{2})$`)
	reClock    = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
	reYearly   = regexp.MustCompile(`^每年\s*(\d{1,2})月(\d{1,2})日?\s*(\d{1,2}):(\d{2})$`)
	reMonthly  = regexp.MustCompile(`^每月\s*(\d{1,2})号?\s*(\d{1,2}):(\d{2})$`)
	reWeekly   = regexp.MustCompile(`^每周([一二三四五六日1-7])\s*(\d{1,2}):(\d{2})$`)
	reDaily    = regexp.MustCompile(`^每天\s*(\d{1,2}):(\d{2})$`)
)

var weekdayDigits = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5, "六": 6, "日": 7,
	"1": 1, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7,
}

// Parse converts a time expression into a normalized rule and its first
// computed occurrence. Relative delays (30分钟后) are resolved to one_time
// immediately and never persisted as relative.
func Parse(expr string, now time.Time) (model.Rule, time.Time, error) {
	if m := reRelative.FindStringSubmatch(expr); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return model.Rule{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadTime, expr)
		}
		var d time.Duration
		switch m[2] {
		case "分钟后":
			d = time.Duration(n) * time.Minute
		case "小时后":
			d = time.Duration(n) * time.Hour
		case "天后":
			d = time.Duration(n) * 24 * time.Hour
		}
		at := now.Add(d)
		return oneTime(at), at, nil
	}

	if m := reToday.FindStringSubmatch(expr); m != nil {
		h, mi, err := clock(m[1], m[2])
		if err != nil {
			return model.Rule{}, time.Time{}, err
		}
		at := atClock(now, 0, h, mi)
		if !at.After(now) {
			return model.Rule{}, time.Time{}, fmt.Errorf("%w: %s", ErrPastTime, at.Format("15:04"))
		}
		return oneTime(at), at, nil
	}

	if m := reTomorrow.FindStringSubmatch(expr); m != nil {
		return oneTimeAhead(now, 1, m[1], m[2])
	}
	if m := reDayAfter.FindStringSubmatch(expr); m != nil {
		return oneTimeAhead(now, 2, m[1], m[2])
	}

	if m := reClock.FindStringSubmatch(expr); m != nil {
		return recurring(model.KindDaily, m[1], m[2], now)
	}

	if m := reYearly.FindStringSubmatch(expr); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		h, mi, err := clock(m[3], m[4])
		if err != nil {
			return model.Rule{}, time.Time{}, err
		}
		if month < 1 || month > 12 || day < 1 || day > maxMonthDay(month) {
			return model.Rule{}, time.Time{}, fmt.Errorf("%w: %d月%d日", ErrBadTime, month, day)
		}
		lit := fmt.Sprintf("%d %d %02d:%02d", month, day, h, mi)
		return finishRecurring(model.KindYearly, lit, now)
	}

	if m := reMonthly.FindStringSubmatch(expr); m != nil {
		day, _ := strconv.Atoi(m[1])
		h, mi, err := clock(m[2], m[3])
		if err != nil {
			return model.Rule{}, time.Time{}, err
		}
		if day < 1 || day > 31 {
			return model.Rule{}, time.Time{}, fmt.Errorf("%w: %d号", ErrBadTime, day)
		}
		lit := fmt.Sprintf("%d %02d:%02d", day, h, mi)
		return finishRecurring(model.KindMonthly, lit, now)
	}

	if m := reWeekly.FindStringSubmatch(expr); m != nil {
		wd := weekdayDigits[m[1]]
		h, mi, err := clock(m[2], m[3])
		if err != nil {
			return model.Rule{}, time.Time{}, err
		}
		lit := fmt.Sprintf("%d %02d:%02d", wd, h, mi)
		return finishRecurring(model.KindWeekly, lit, now)
	}

	if m := reDaily.FindStringSubmatch(expr); m != nil {
		return recurring(model.KindDaily, m[1], m[2], now)
	}

	if expr == "每小时" {
		return finishRecurring(model.KindEveryHour, "", now)
	}
	if expr == "每周" {
		return finishRecurring(model.KindEveryWeek, "", now)
	}

	// Last resort: general date/time parsing of the whole expression.
	if c := carbon.Parse(expr); c.Error == nil && !c.IsZero() {
		at := c.Carbon2Time().In(now.Location())
		return oneTime(at), at, nil
	}
	return model.Rule{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnsupported, expr)
}

func oneTime(at time.Time) model.Rule {
	return model.Rule{Kind: model.KindOneTime, Literal: at.Format(timeLayout)}
}

func oneTimeAhead(now time.Time, days int, hs, ms string) (model.Rule, time.Time, error) {
	h, mi, err := clock(hs, ms)
	if err != nil {
		return model.Rule{}, time.Time{}, err
	}
	at := atClock(now, days, h, mi)
	return oneTime(at), at, nil
}

func recurring(kind model.Kind, hs, ms string, now time.Time) (model.Rule, time.Time, error) {
	h, mi, err := clock(hs, ms)
	if err != nil {
		return model.Rule{}, time.Time{}, err
	}
	return finishRecurring(kind, fmt.Sprintf("%02d:%02d", h, mi), now)
}

func finishRecurring(kind model.Kind, literal string, now time.Time) (model.Rule, time.Time, error) {
	r := model.Rule{Kind: kind, Literal: literal}
	next, err := Next(kind, literal, now)
	if err != nil {
		return model.Rule{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadTime, literal)
	}
	return r, next, nil
}

// clock parses an hour and minute component pair, validating ranges.
func clock(hs, ms string) (int, int, error) {
	h, err1 := strconv.Atoi(hs)
	m, err2 := strconv.Atoi(ms)
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w: %s:%s", ErrBadTime, hs, ms)
	}
	return h, m, nil
}

// atClock returns now shifted by days at h:m with seconds zeroed.
func atClock(now time.Time, days, h, m int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+days, h, m, 0, 0, now.Location())
}

// maxMonthDay returns the largest day-of-month a yearly rule may name
// for the given month (29 for February, leap years included).
func maxMonthDay(month int) int {
	switch time.Month(month) {
	case time.February:
		return 29
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}
