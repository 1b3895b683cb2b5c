package core

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/pkg/errors"
)

const (
	dateLayout      = "2006-01-02"
	monthYearLayout = "2006-01"
)

var ErrInvalidMonthYear = errors.New("month must be formatted as YYYY-MM")

// Date is a calendar date without time zone, stored as DATE.
type Date struct {
	civil.Date
}

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date{civil.DateOf(t)}
}

func ParseDate(s string) (Date, error) {
	d, err := civil.ParseDate(CleanString(s))
	if err != nil {
		return Date{}, errors.Wrapf(err, "parsing date %q", s)
	}
	return Date{d}, nil
}

func (d Date) IsZero() bool {
	return d.Date == civil.Date{}
}

func (d Date) Before(other Date) bool { return d.Date.Before(other.Date) }

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	}
	return fmt.Errorf("core.Date: cannot scan %T", src)
}

// scanString accepts "2006-01-02" and any timestamp prefixed by it.
func (d *Date) scanString(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthYear identifies a calendar month, formatted as YYYY-MM.
type MonthYear struct {
	Year  int
	Month time.Month
}

func MonthOf(d Date) MonthYear {
	return MonthYear{Year: d.Year, Month: d.Month}
}

func ParseMonthYear(s string) (MonthYear, error) {
	s = CleanString(s)
	if len(s) != len(monthYearLayout) || strings.Count(s, "-") != 1 {
		return MonthYear{}, ErrInvalidMonthYear
	}
	t, err := time.Parse(monthYearLayout, s)
	if err != nil {
		return MonthYear{}, ErrInvalidMonthYear
	}
	return MonthYear{Year: t.Year(), Month: t.Month()}, nil
}

func (m MonthYear) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m MonthYear) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Start returns the first day of the month.
func (m MonthYear) Start() Date {
	return NewDate(m.Year, m.Month, 1)
}

// End returns the first day of the following month (exclusive bound).
func (m MonthYear) End() Date {
	return NewDate(m.Year, m.Month+1, 1)
}

func (m MonthYear) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MonthYear) UnmarshalText(data []byte) error {
	parsed, err := ParseMonthYear(string(data))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m MonthYear) Value() (driver.Value, error) {
	return m.String(), nil
}

func (m *MonthYear) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return m.UnmarshalText([]byte(v))
	case []byte:
		return m.UnmarshalText(v)
	}
	return fmt.Errorf("core.MonthYear: cannot scan %T", src)
}
