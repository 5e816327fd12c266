package models

import (
	"testing"
	"time"
)

func TestParseDateDayFirst(t *testing.T) {
	cases := []struct {
		in   string
		want Date
	}{
		{"05-04-2024", NewDate(2024, time.April, 5)},
		{"05/04/2024", NewDate(2024, time.April, 5)},
		{" 31-12-2023 ", NewDate(2023, time.December, 31)},
	}

	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "2024-04-05", "not a date", "32-13-2024"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) should fail", in)
		}
	}
}

func TestDateAddDaysCrossesMonth(t *testing.T) {
	d := NewDate(2024, time.April, 28).AddDays(5)
	if d != NewDate(2024, time.May, 3) {
		t.Errorf("AddDays crossed month wrong: %s", d)
	}
}

func TestDateRoundTripCSV(t *testing.T) {
	var d Date
	if err := d.UnmarshalCSV("15-06-2024"); err != nil {
		t.Fatalf("UnmarshalCSV: %v", err)
	}
	s, err := d.MarshalCSV()
	if err != nil {
		t.Fatalf("MarshalCSV: %v", err)
	}
	if s != "15-06-2024" {
		t.Errorf("round trip produced %q", s)
	}
}
