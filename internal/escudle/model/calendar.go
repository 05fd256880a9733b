package model

import "time"

// CalendarDay: UTC 기준 YYYY-MM-DD 날짜 문자열
type CalendarDay string

// DayOf: 시각이 속한 UTC 날짜를 반환합니다.
func DayOf(t time.Time) CalendarDay {
	return CalendarDay(t.UTC().Format(time.DateOnly))
}

// Time: 날짜의 UTC 자정 시각을 반환합니다.
func (d CalendarDay) Time() (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, string(d), time.UTC)
}

// Prev: 전날을 반환합니다. 형식이 잘못된 날짜면 빈 값을 반환합니다.
func (d CalendarDay) Prev() CalendarDay {
	t, err := d.Time()
	if err != nil {
		return ""
	}
	return DayOf(t.AddDate(0, 0, -1))
}

// DaysSince: from 부터 d 까지의 일 수를 반환합니다.
func (d CalendarDay) DaysSince(from time.Time) (int, error) {
	t, err := d.Time()
	if err != nil {
		return 0, err
	}
	start := from.UTC().Truncate(24 * time.Hour)
	return int(t.Sub(start).Hours() / 24), nil
}

func (d CalendarDay) String() string { return string(d) }
