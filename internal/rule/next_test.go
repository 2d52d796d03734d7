package rule

import (
	"errors"
	"testing"
	"time"

	"remind_bot/internal/model"
)

func date(y int, mo time.Month, d, h, m int) time.Time {
	return time.Date(y, mo, d, h, m, 0, 0, time.Local)
}

func TestNextOneTime(t *testing.T) {
	now := date(2024, 1, 3, 10, 0)
	// The stored instant is returned unconditionally, past or future.
	for _, lit := range []string{"2024-01-01 08:00:00", "2024-06-01 08:00:00"} {
		got, err := Next(model.KindOneTime, lit, now)
		if err != nil {
			t.Fatalf("Next(%q): %v", lit, err)
		}
		want, _ := time.ParseInLocation("2006-01-02 15:04:05", lit, time.Local)
		if !got.Equal(want) {
			t.Errorf("Next(%q) = %v, want %v", lit, got, want)
		}
	}
}

func TestNextDaily(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		literal string
		want    time.Time
	}{
		{"before boundary", date(2024, 1, 3, 7, 0), "08:30", date(2024, 1, 3, 8, 30)},
		{"after boundary", date(2024, 1, 3, 9, 0), "08:30", date(2024, 1, 4, 8, 30)},
		{"exactly at boundary rolls over", date(2024, 1, 3, 8, 30), "08:30", date(2024, 1, 4, 8, 30)},
		{"year rollover", date(2024, 12, 31, 23, 0), "10:00", date(2025, 1, 1, 10, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(model.KindDaily, tt.literal, tt.now)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextWeekly(t *testing.T) {
	// 2024-01-01 is a Monday, 2024-01-03 a Wednesday.
	tests := []struct {
		name    string
		now     time.Time
		literal string
		want    time.Time
	}{
		{"wednesday to next monday", date(2024, 1, 3, 10, 0), "1 09:00", date(2024, 1, 8, 9, 0)},
		{"monday morning same day", date(2024, 1, 1, 8, 0), "1 09:00", date(2024, 1, 1, 9, 0)},
		{"monday at boundary goes to next week", date(2024, 1, 1, 9, 0), "1 09:00", date(2024, 1, 8, 9, 0)},
		{"sunday rule from monday", date(2024, 1, 1, 8, 0), "7 21:30", date(2024, 1, 7, 21, 30)},
		{"same weekday later hour", date(2024, 1, 3, 10, 0), "3 12:00", date(2024, 1, 3, 12, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(model.KindWeekly, tt.literal, tt.now)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextMonthly(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		literal string
		want    time.Time
	}{
		{"this month", date(2024, 1, 3, 10, 0), "8 08:00", date(2024, 1, 8, 8, 0)},
		{"next month", date(2024, 1, 10, 10, 0), "8 08:00", date(2024, 2, 8, 8, 0)},
		{"december wraps to january", date(2024, 12, 20, 10, 0), "8 08:00", date(2025, 1, 8, 8, 0)},
		{"day 31 clamps in 30-day month", date(2024, 4, 10, 10, 0), "31 08:00", date(2024, 4, 30, 8, 0)},
		{"day 31 clamps in february", date(2024, 2, 1, 10, 0), "31 08:00", date(2024, 2, 29, 8, 0)},
		{"clamped day passed, full day next month", date(2024, 4, 30, 9, 0), "31 08:00", date(2024, 5, 31, 8, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(model.KindMonthly, tt.literal, tt.now)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextYearly(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		literal string
		want    time.Time
	}{
		{"later this year", date(2024, 1, 3, 10, 0), "3 15 08:00", date(2024, 3, 15, 8, 0)},
		{"next year", date(2024, 6, 1, 10, 0), "3 15 08:00", date(2025, 3, 15, 8, 0)},
		{"feb 29 normalizes in non-leap year", date(2025, 6, 1, 10, 0), "2 29 08:00", date(2026, 3, 1, 8, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(model.KindYearly, tt.literal, tt.now)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextEveryHour(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{date(2024, 1, 3, 10, 17), date(2024, 1, 3, 11, 0)},
		{date(2024, 1, 3, 10, 0), date(2024, 1, 3, 11, 0)},
		{date(2024, 1, 3, 23, 30), date(2024, 1, 4, 0, 0)},
	}

	for _, tt := range tests {
		got, err := Next(model.KindEveryHour, "", tt.now)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("Next at %v = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestNextEveryWeek(t *testing.T) {
	now := date(2024, 1, 3, 10, 0)

	// Empty literal defaults to 00:00, which has passed today.
	got, err := Next(model.KindEveryWeek, "", now)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if want := date(2024, 1, 10, 0, 0); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = Next(model.KindEveryWeek, "18:00", now)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if want := date(2024, 1, 3, 18, 0); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNextIsPure(t *testing.T) {
	now := date(2024, 1, 3, 10, 0)
	first, err := Next(model.KindWeekly, "1 09:00", now)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	second, err := Next(model.KindWeekly, "1 09:00", now)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !first.Equal(second) {
		t.Errorf("Next is not deterministic: %v vs %v", first, second)
	}
}

func TestNextCorruptLiterals(t *testing.T) {
	now := date(2024, 1, 3, 10, 0)
	tests := []struct {
		kind    model.Kind
		literal string
	}{
		{model.KindOneTime, "not-a-timestamp"},
		{model.KindDaily, "25:00"},
		{model.KindDaily, "0800"},
		{model.KindWeekly, "8 09:00"},
		{model.KindWeekly, "monday 09:00"},
		{model.KindMonthly, "8"},
		{model.KindYearly, "3 15"},
		{model.KindEveryWeek, "9am"},
		{model.Kind("bogus"), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.literal, func(t *testing.T) {
			_, err := Next(tt.kind, tt.literal, now)
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("err = %v, want ErrCorrupt", err)
			}
		})
	}
}
