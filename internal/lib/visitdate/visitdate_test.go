package visitdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TableTests(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{
			name:  "date only",
			value: "2024-05-03",
			want:  time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "date and time",
			value: "2024-05-03 18:30:00",
			want:  time.Date(2024, 5, 3, 18, 30, 0, 0, time.UTC),
		},
		{
			name:  "date time and fraction",
			value: "2024-05-03 18:30:00.123456",
			want:  time.Date(2024, 5, 3, 18, 30, 0, 123456000, time.UTC),
		},
		{
			name:  "iso with T separator",
			value: "2024-05-03T07:15:00",
			want:  time.Date(2024, 5, 3, 7, 15, 0, 0, time.UTC),
		},
		{
			name:  "surrounding spaces",
			value: "  2024-05-03 ",
			want:  time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "trailing offset",
			value: "2024-05-03 10:00:00+00:00",
			want:  time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "T separator with trailing zone name",
			value: "2024-05-03T10:00:00 UTC",
			want:  time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "garbage after valid prefix length",
			value: "2024-05-03 xx:00:00+00:00",
			want:  time.Time{},
		},
		{
			name:  "garbage",
			value: "not a date",
			want:  time.Time{},
		},
		{
			name:  "impossible month",
			value: "2024-13-01",
			want:  time.Time{},
		},
		{
			name:  "empty",
			value: "",
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.value)
			assert.True(t, tt.want.Equal(got), "Parse(%q) = %v, want %v", tt.value, got, tt.want)
		})
	}
}

func TestInMonth(t *testing.T) {
	ref := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{name: "first day of month", t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), want: true},
		{name: "last second of month", t: time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC), want: true},
		{name: "previous month", t: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), want: false},
		{name: "same month previous year", t: time.Date(2023, 5, 3, 0, 0, 0, 0, time.UTC), want: false},
		{name: "unparsable sentinel", t: Parse("oops"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InMonth(tt.t, ref))
		})
	}
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2024-05-03", DayKey("2024-05-03 18:30:00"))
	assert.Equal(t, "2024-05-03", DayKey("2024-05-03"))
	assert.Equal(t, "2024-05", DayKey("2024-05"))
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "May 2024", MonthLabel(time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)))
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		timeOfDay string
		want      string
		wantErr   bool
	}{
		{name: "no time means midnight", date: "2024-05-03", timeOfDay: "", want: "2024-05-03 00:00:00"},
		{name: "hours and minutes", date: "2024-05-03", timeOfDay: "18:30", want: "2024-05-03 18:30:00"},
		{name: "hours minutes seconds", date: "2024-05-03", timeOfDay: "07:05:09", want: "2024-05-03 07:05:09"},
		{name: "empty date", date: "", timeOfDay: "10:00", wantErr: true},
		{name: "malformed date", date: "03-05-2024", timeOfDay: "", wantErr: true},
		{name: "malformed time", date: "2024-05-03", timeOfDay: "evening", wantErr: true},
		{name: "out of range time", date: "2024-05-03", timeOfDay: "25:00", wantErr: true},
		{name: "too many parts", date: "2024-05-03", timeOfDay: "10:00:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Combine(tt.date, tt.timeOfDay)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)
}

func TestFormatDay(t *testing.T) {
	assert.Empty(t, FormatDay(nil))
	d := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-14", FormatDay(&d))
}
