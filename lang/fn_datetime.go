package lang

import (
	"strings"
	"time"
)

func init() {
	register(CategoryDatetime, "DATE(year, month, day)", dateDate)
	register(CategoryDatetime, "TIME(hour, minute, second)", dateTime)
	register(CategoryDatetime, "YEAR(serial_number)", datePart(func(t time.Time) int { return t.Year() }))
	register(CategoryDatetime, "MONTH(serial_number)", datePart(func(t time.Time) int { return int(t.Month()) }))
	register(CategoryDatetime, "DAY(serial_number)", datePart(func(t time.Time) int { return t.Day() }))
	register(CategoryDatetime, "ISOWEEKNUM(date)", datePart(isoWeek))
	register(CategoryDatetime, "HOUR(serial_number)", clockPart(time.Time.Hour))
	register(CategoryDatetime, "MINUTE(serial_number)", clockPart(time.Time.Minute))
	register(CategoryDatetime, "SECOND(serial_number)", clockPart(time.Time.Second))
	register(CategoryDatetime, "DAYS(end_date, start_date)", dateDays)
	register(CategoryDatetime, "EDATE(start_date, months)", dateShift(false))
	register(CategoryDatetime, "EOMONTH(start_date, months)", dateShift(true))
	register(CategoryDatetime, "DATEVALUE(date_text)", dateValue)
	register(CategoryDatetime, "TIMEVALUE(time_text)", timeValue)
	register(CategoryDatetime, "WEEKDAY(serial_number, [return_type])", dateWeekday)
	register(CategoryDatetime, "WEEKNUM(serial_number, [return_type])", dateWeeknum)
	register(CategoryDatetime, "NOW()", func(c *Call) (Value, error) { return Datetime(c.Now()), nil })
	register(CategoryDatetime, "TODAY()", func(c *Call) (Value, error) { return DateOf(c.Now().UTC()), nil })
	register(CategoryDatetime, "NETWORKDAYS(start_date, end_date, [holidays])", dateNetworkdays)
	register(CategoryDatetime, "WORKDAY(start_date, days, [holidays])", dateWorkday)
	register(CategoryDatetime, "DAYS360(start_date, end_date, [method])", dateDays360)
	register(CategoryDatetime, "DATEDIF(start_date, end_date, unit)", dateDif)

	unimplemented(CategoryDatetime, "NETWORKDAYS.INTL", "WORKDAY.INTL", "YEARFRAC")
}

// dateDate builds a date from its parts. Years below 1900 are offset from
// 1900 and out-of-range months and days roll over into adjacent ones.
func dateDate(c *Call) (Value, error) {
	y, err := c.Int(0)
	if err != nil {
		return Null(), err
	}

	m, err := c.Int(1)
	if err != nil {
		return Null(), err
	}

	d, err := c.Int(2)
	if err != nil {
		return Null(), err
	}

	if y >= 0 && y < 1900 {
		y += 1900
	}

	if y < 0 || y > 9999 {
		return Null(), nil
	}

	v := Date(y, time.Month(m), d)
	if v.t.Year() > 9999 || v.t.Before(epoch1900) {
		return Null(), nil
	}

	return v, nil
}

func dateTime(c *Call) (Value, error) {
	h, err := c.Int(0)
	if err != nil {
		return Null(), err
	}

	m, err := c.Int(1)
	if err != nil {
		return Null(), err
	}

	s, err := c.Int(2)
	if err != nil {
		return Null(), err
	}

	if h*3600+m*60+s < 0 {
		return Null(), nil
	}

	return TimeOfDay(h, m, s), nil
}

func datePart(part func(time.Time) int) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		t, err := c.Date(0)
		if err != nil {
			return Null(), err
		}

		return Number(float64(part(t))), nil
	}
}

func isoWeek(t time.Time) int {
	_, w := t.ISOWeek()

	return w
}

func clockPart(part func(time.Time) int) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		t, err := c.Time(0)
		if err != nil {
			return Null(), err
		}

		return Number(float64(part(t))), nil
	}
}

func dateDays(c *Call) (Value, error) {
	end, err := c.Date(0)
	if err != nil {
		return Null(), err
	}

	start, err := c.Date(1)
	if err != nil {
		return Null(), err
	}

	return Number(float64(daysBetween(start, end))), nil
}

func dateShift(endOfMonth bool) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		t, err := c.Date(0)
		if err != nil {
			return Null(), err
		}

		n, err := c.Int(1)
		if err != nil {
			return Null(), err
		}

		t = shiftMonths(t, n)
		if endOfMonth {
			t = time.Date(t.Year(), t.Month(), daysIn(t.Year(), t.Month()), 0, 0, 0, 0, time.UTC)
		}

		if t.Before(epoch1900) || t.Year() > 9999 {
			return Null(), nil
		}

		return DateOf(t), nil
	}
}

func dateValue(c *Call) (Value, error) {
	s, err := c.Text(0)
	if err != nil {
		return Null(), err
	}

	t, ok := parseDateText(s)
	if !ok {
		return Null(), c.Fail("%q is not a date", s)
	}

	return DateOf(t), nil
}

func timeValue(c *Call) (Value, error) {
	s, err := c.Text(0)
	if err != nil {
		return Null(), err
	}

	t, ok := parseTimeText(s)
	if !ok {
		return Null(), c.Fail("%q is not a time", s)
	}

	return ClockOf(t), nil
}

// weekStart returns the first day of the week and the number given to it
// for a WEEKDAY return type.
func weekStart(returnType int) (time.Weekday, int, bool) {
	switch {
	case returnType == 1:
		return time.Sunday, 1, true
	case returnType == 2:
		return time.Monday, 1, true
	case returnType == 3:
		return time.Monday, 0, true
	case returnType >= 11 && returnType <= 17:
		return time.Weekday((returnType - 10) % 7), 1, true
	}

	return 0, 0, false
}

func dateWeekday(c *Call) (Value, error) {
	t, err := c.Date(0)
	if err != nil {
		return Null(), err
	}

	rt, err := c.IntOr(1, 1)
	if err != nil {
		return Null(), err
	}

	start, base, ok := weekStart(rt)
	if !ok {
		return Null(), nil
	}

	return Number(float64((int(t.Weekday())-int(start)+7)%7 + base)), nil
}

// dateWeeknum numbers weeks from the one containing January 1. Return type
// 21 selects ISO week numbering.
func dateWeeknum(c *Call) (Value, error) {
	t, err := c.Date(0)
	if err != nil {
		return Null(), err
	}

	rt, err := c.IntOr(1, 1)
	if err != nil {
		return Null(), err
	}

	if rt == 21 {
		return Number(float64(isoWeek(t))), nil
	}

	start, _, ok := weekStart(rt)
	if !ok || rt == 3 {
		return Null(), nil
	}

	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(jan1.Weekday()) - int(start) + 7) % 7

	return Number(float64((t.YearDay()-1+offset)/7 + 1)), nil
}

// holidays evaluates optional argument i as a set of dates.
func holidays(c *Call, i int) (map[time.Time]bool, error) {
	set := make(map[time.Time]bool)

	if !c.Has(i) {
		return set, nil
	}

	v, err := c.Arg(i)
	if err != nil {
		return nil, err
	}

	var add func(v Value) error

	add = func(v Value) error {
		if elems, ok := v.AsArray(); ok {
			for _, e := range elems {
				if err := add(e); err != nil {
					return err
				}
			}

			return nil
		}

		if v.IsNull() {
			return errNullArgument
		}

		t, ok := toDate(v)
		if !ok {
			return c.Fail("holiday %s is not a date", v)
		}

		set[t] = true

		return nil
	}

	return set, add(v)
}

// dateNetworkdays counts weekdays from start to end inclusive, excluding
// holidays. The count is negative when end precedes start.
func dateNetworkdays(c *Call) (Value, error) {
	start, err := c.Date(0)
	if err != nil {
		return Null(), err
	}

	end, err := c.Date(1)
	if err != nil {
		return Null(), err
	}

	skip, err := holidays(c, 2)
	if err != nil {
		return Null(), err
	}

	step, sign := 1, 1.0
	if end.Before(start) {
		step, sign = -1, -1
	}

	n := 0.0

	for t := start; ; t = t.AddDate(0, 0, step) {
		if !isWeekend(t) && !skip[t] {
			n++
		}

		if t.Equal(end) {
			break
		}
	}

	return Number(sign * n), nil
}

// dateWorkday returns the date the given number of working days from start.
func dateWorkday(c *Call) (Value, error) {
	start, err := c.Date(0)
	if err != nil {
		return Null(), err
	}

	days, err := c.Int(1)
	if err != nil {
		return Null(), err
	}

	skip, err := holidays(c, 2)
	if err != nil {
		return Null(), err
	}

	step := 1
	if days < 0 {
		step, days = -1, -days
	}

	t := start
	for days > 0 {
		t = t.AddDate(0, 0, step)
		if !isWeekend(t) && !skip[t] {
			days--
		}

		if t.Year() > 9999 || t.Before(epoch1900) {
			return Null(), nil
		}
	}

	return DateOf(t), nil
}

// dateDays360 counts days on a 360-day year using the US (NASD) method, or
// the European method when method is TRUE.
func dateDays360(c *Call) (Value, error) {
	start, err := c.Date(0)
	if err != nil {
		return Null(), err
	}

	end, err := c.Date(1)
	if err != nil {
		return Null(), err
	}

	european, err := c.BoolOr(2, false)
	if err != nil {
		return Null(), err
	}

	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()

	if european {
		sd, ed = min(sd, 30), min(ed, 30)
	} else {
		lastFeb := func(t time.Time) bool {
			return t.Month() == time.February && t.Day() == daysIn(t.Year(), time.February)
		}

		if lastFeb(start) {
			if lastFeb(end) {
				ed = 30
			}

			sd = 30
		}

		if ed == 31 && sd >= 30 {
			ed = 30
		}

		sd = min(sd, 30)
	}

	return Number(float64((ey-sy)*360 + (int(em)-int(sm))*30 + (ed - sd))), nil
}

// dateDif returns the difference between two dates in the given unit: Y, M,
// D, MD, YM, or YD. The start must not be after the end.
func dateDif(c *Call) (Value, error) {
	start, err := c.Date(0)
	if err != nil {
		return Null(), err
	}

	end, err := c.Date(1)
	if err != nil {
		return Null(), err
	}

	unit, err := c.Text(2)
	if err != nil {
		return Null(), err
	}

	if start.After(end) {
		return Null(), nil
	}

	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()

	months := (ey-sy)*12 + int(em) - int(sm)
	if ed < sd {
		months--
	}

	switch strings.ToUpper(unit) {
	case "Y":
		return Number(float64(months / 12)), nil
	case "M":
		return Number(float64(months)), nil
	case "D":
		return Number(float64(daysBetween(start, end))), nil
	case "YM":
		return Number(float64(months % 12)), nil
	case "MD":
		if ed >= sd {
			return Number(float64(ed - sd)), nil
		}

		prev := time.Date(ey, em-1, sd, 0, 0, 0, 0, time.UTC)

		return Number(float64(daysBetween(prev, end))), nil
	case "YD":
		anniv := time.Date(ey, sm, sd, 0, 0, 0, 0, time.UTC)
		if anniv.After(end) {
			anniv = time.Date(ey-1, sm, sd, 0, 0, 0, 0, time.UTC)
		}

		return Number(float64(daysBetween(anniv, end))), nil
	}

	return Null(), c.Fail("unknown unit %q", unit)
}
