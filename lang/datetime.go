package lang

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Serial day numbers count days from the spreadsheet epoch. Serial 60 is the
// nonexistent 1900-02-29, so serials below it use an epoch one day later.
var (
	epoch1900       = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)
	epoch1900Minus1 = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
)

const (
	serialLeapBug  = 60
	serialTooLarge = 2958466 // 10000-01-01
	secondsPerDay  = 86400
)

// serialToDate converts a serial day number to a UTC date. The fractional
// part is ignored.
func serialToDate(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial < 0 || serial >= serialTooLarge {
		return time.Time{}, false
	}

	days := int(serial)
	if days < serialLeapBug {
		return epoch1900.AddDate(0, 0, days), true
	}

	return epoch1900Minus1.AddDate(0, 0, days), true
}

// dateToSerial converts a date to its serial day number.
func dateToSerial(t time.Time) float64 {
	y, m, d := t.Date()
	t = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if t.Before(time.Date(1900, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		return float64(daysBetween(epoch1900, t))
	}

	return float64(daysBetween(epoch1900Minus1, t))
}

// parseDateText parses M/D/YYYY or YYYY-MM-DD.
func parseDateText(s string) (time.Time, bool) {
	s = strings.Trim(strings.TrimSpace(s), `'"`)

	var parts []string

	ymd := false

	switch {
	case strings.Count(s, "/") == 2:
		parts = strings.Split(s, "/")
	case strings.Count(s, "-") == 2:
		parts, ymd = strings.Split(s, "-"), true
	default:
		return time.Time{}, false
	}

	nums := make([]int, 3)

	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return time.Time{}, false
		}

		nums[i] = n
	}

	y, m, d := nums[2], nums[0], nums[1]
	if ymd {
		y, m, d = nums[0], nums[1], nums[2]
	}

	if m < 1 || m > 12 || d < 1 || d > daysIn(y, time.Month(m)) || y > 9999 {
		return time.Time{}, false
	}

	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

// parseTimeText parses HH:MM or HH:MM:SS with an optional AM or PM suffix.
func parseTimeText(s string) (time.Time, bool) {
	s = strings.ToUpper(strings.Trim(strings.TrimSpace(s), `'"`))

	meridiem := ""
	if t, ok := strings.CutSuffix(s, "AM"); ok {
		s, meridiem = strings.TrimSpace(t), "AM"
	} else if t, ok := strings.CutSuffix(s, "PM"); ok {
		s, meridiem = strings.TrimSpace(t), "PM"
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, false
	}

	var h, m int

	var sec float64

	var err error

	if h, err = strconv.Atoi(parts[0]); err != nil {
		return time.Time{}, false
	}

	if m, err = strconv.Atoi(parts[1]); err != nil || m < 0 || m > 59 {
		return time.Time{}, false
	}

	if len(parts) == 3 {
		if sec, err = strconv.ParseFloat(parts[2], 64); err != nil || sec < 0 || sec >= 60 {
			return time.Time{}, false
		}
	}

	switch meridiem {
	case "":
		if h < 0 || h > 23 {
			return time.Time{}, false
		}
	default:
		if h < 1 || h > 12 {
			return time.Time{}, false
		}

		h %= 12
		if meridiem == "PM" {
			h += 12
		}
	}

	whole := int(sec)
	v := TimeOfDay(h, m, whole)

	return v.t.Add(time.Duration((sec - float64(whole)) * float64(time.Second))), true
}

// toDate converts a value to a UTC date.
func toDate(v Value) (time.Time, bool) {
	switch v.Kind() {
	case KindDate:
		return v.t, true
	case KindDatetime:
		y, m, d := v.t.Date()

		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	case KindString:
		return parseDateText(v.str)
	case KindNumber:
		return serialToDate(v.num)
	}

	return time.Time{}, false
}

// toClock converts a value to a clock reading on 0000-01-01 UTC.
func toClock(v Value) (time.Time, bool) {
	switch v.Kind() {
	case KindTime:
		return v.t, true
	case KindDatetime:
		return ClockOf(v.t).t, true
	case KindString:
		return parseTimeText(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || v.num < 0 {
			return time.Time{}, false
		}

		_, frac := math.Modf(v.num)
		secs := int(math.Round(frac * secondsPerDay))

		return TimeOfDay(0, 0, secs).t, true
	}

	return time.Time{}, false
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// shiftMonths moves t by n months, clamping the day to the end of the
// target month.
func shiftMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)

	return first.AddDate(0, 0, min(d, daysIn(first.Year(), first.Month()))-1)
}

// daysBetween returns the number of whole days from date a to date b.
// Unix seconds are used because [time.Duration] cannot span the full range
// of dates.
func daysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()

	return wd == time.Saturday || wd == time.Sunday
}
