package homework

import (
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	kinshasa := time.FixedZone("WAT", 1*60*60)

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{name: "no zero padding", date: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), want: "5 Jan 2024"},
		{name: "end of year", date: time.Date(1999, time.December, 25, 23, 59, 59, 0, time.UTC), want: "25 Dec 1999"},
		{name: "two digit day", date: time.Date(2021, time.October, 14, 12, 0, 0, 0, time.UTC), want: "14 Oct 2021"},
		{name: "leap day", date: time.Date(2020, time.February, 29, 8, 0, 0, 0, time.UTC), want: "29 Feb 2020"},
		{name: "own location", date: time.Date(2023, time.June, 30, 23, 30, 0, 0, time.UTC).In(kinshasa), want: "1 Jul 2023"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.date); got != tt.want {
				t.Errorf("FormatDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDate_months(t *testing.T) {
	want := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	for i, abbr := range want {
		date := time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
		if got := FormatDate(date); got != "1 "+abbr+" 2024" {
			t.Errorf("FormatDate(%v) = %q, want %q", date, got, "1 "+abbr+" 2024")
		}
	}
}

func TestFormatDate_pure(t *testing.T) {
	date := time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)
	first := FormatDate(date)
	for i := 0; i < 5; i++ {
		if got := FormatDate(date); got != first {
			t.Fatalf("FormatDate() = %q, then %q", first, got)
		}
	}
}

func TestDueLabel(t *testing.T) {
	got := DueLabel(time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC))
	if got != "Due: 5 Jan 2024" {
		t.Errorf("DueLabel() = %q, want %q", got, "Due: 5 Jan 2024")
	}
}
