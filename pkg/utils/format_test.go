package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatRupees(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"999", "₹999.00"},
		{"1000", "₹1,000.00"},
		{"100000", "₹1,00,000.00"},
		{"1234567.89", "₹12,34,567.89"},
		{"10000000", "₹1,00,00,000.00"},
		{"-15000", "-₹15,000.00"},
	}

	for _, tc := range cases {
		got := FormatRupees(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Errorf("FormatRupees(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestFormatPnL(t *testing.T) {
	if got := FormatPnL(decimal.NewFromInt(500)); got != "+₹500.00" {
		t.Errorf("positive P/L: %s", got)
	}
	if got := FormatPnL(decimal.NewFromInt(-500)); got != "-₹500.00" {
		t.Errorf("negative P/L: %s", got)
	}
}

func TestFormatQuantity(t *testing.T) {
	if got := FormatQuantity(1250000); got != "12,50,000" {
		t.Errorf("FormatQuantity(1250000) = %s", got)
	}
}
