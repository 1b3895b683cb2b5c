package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonthYear(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		want    MonthYear
		wantErr bool
	}{
		{name: "valid", s: "2024-03", want: MonthYear{Year: 2024, Month: time.March}},
		{name: "surrounding spaces", s: " 2024-12 ", want: MonthYear{Year: 2024, Month: time.December}},
		{name: "empty", s: "", wantErr: true},
		{name: "single digit month", s: "2024-3", wantErr: true},
		{name: "month 13", s: "2024-13", wantErr: true},
		{name: "full date", s: "2024-03-01", wantErr: true},
		{name: "slash", s: "2024/03", wantErr: true},
		{name: "garbage", s: "lol-ha", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonthYear(tt.s)
			if tt.wantErr {
				if err != ErrInvalidMonthYear {
					t.Errorf("failed! error = %v; wantErr %v", err, ErrInvalidMonthYear)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthYear_bounds(t *testing.T) {
	tests := []struct {
		month     MonthYear
		wantStart Date
		wantEnd   Date
	}{
		{MonthYear{2024, time.March}, NewDate(2024, time.March, 1), NewDate(2024, time.April, 1)},
		{MonthYear{2024, time.February}, NewDate(2024, time.February, 1), NewDate(2024, time.March, 1)},
		{MonthYear{2024, time.December}, NewDate(2024, time.December, 1), NewDate(2025, time.January, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.wantStart, tt.month.Start())
			assert.Equal(t, tt.wantEnd, tt.month.End())
			assert.True(t, tt.month.Start().Before(tt.month.End()))
		})
	}
}

func TestMonthYear_String(t *testing.T) {
	assert.Equal(t, "2024-03", MonthYear{Year: 2024, Month: time.March}.String())
	assert.Equal(t, "0999-11", MonthYear{Year: 999, Month: time.November}.String())
	assert.Equal(t, MonthYear{Year: 2024, Month: time.March}, MonthOf(NewDate(2024, time.March, 31)))
}

func TestMonthYear_text(t *testing.T) {
	var m MonthYear
	require.NoError(t, m.UnmarshalText([]byte("2023-09")))
	assert.Equal(t, MonthYear{Year: 2023, Month: time.September}, m)

	text, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2023-09", string(text))

	assert.Error(t, m.UnmarshalText([]byte("09-2023")))
}

func TestDate_Scan(t *testing.T) {
	want := NewDate(2024, time.March, 1)
	tests := []struct {
		name    string
		src     interface{}
		want    Date
		wantErr bool
	}{
		{name: "nil", src: nil, want: Date{}},
		{name: "time", src: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), want: want},
		{name: "string", src: "2024-03-01", want: want},
		{name: "bytes", src: []byte("2024-03-01"), want: want},
		{name: "timestamp string", src: "2024-03-01 00:00:00+00:00", want: want},
		{name: "invalid string", src: "01/03/2024", wantErr: true},
		{name: "unsupported type", src: 42, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := d.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestDate_Value(t *testing.T) {
	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = NewDate(2024, time.March, 3).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", v)
}

func TestDate_ordering(t *testing.T) {
	d := NewDate(2024, time.February, 28)
	assert.True(t, d.Before(NewDate(2024, time.February, 29)))
	assert.True(t, d.Before(NewDate(2024, time.March, 1)))
	assert.False(t, NewDate(2024, time.March, 1).Before(d))
	assert.False(t, d.Before(d))
	assert.True(t, Date{}.IsZero())
	assert.False(t, d.IsZero())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-03-01 ")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.March, 1), d)

	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)
}
