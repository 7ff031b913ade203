package provider

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   int64
	}{
		{name: "two fractional digits", amount: "123.45", want: 12345},
		{name: "whole amount", amount: "10", want: 1000},
		{name: "one fractional digit", amount: "10.5", want: 1050},
		{name: "zero", amount: "0", want: 0},
		{name: "excess precision floors", amount: "10.999", want: 1099},
		{name: "sub-cent floors to zero", amount: "0.009", want: 0},
		{name: "large amount", amount: "99999999.99", want: 9999999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			if got := ToMinorUnits(amount); got != tt.want {
				t.Errorf("ToMinorUnits(%s) = %d, want %d", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFromMinorUnits(t *testing.T) {
	tests := []struct {
		name  string
		units int64
		want  string
	}{
		{name: "cents", units: 12345, want: "123.45"},
		{name: "whole amount", units: 1000, want: "10.00"},
		{name: "single cent", units: 1, want: "0.01"},
		{name: "zero", units: 0, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromMinorUnits(tt.units).StringFixed(2); got != tt.want {
				t.Errorf("FromMinorUnits(%d) = %s, want %s", tt.units, got, tt.want)
			}
		})
	}
}

func TestAmountRoundTrip(t *testing.T) {
	// Every amount with at most two fractional digits survives the round trip.
	amounts := []string{"0.01", "0.99", "1.00", "10.50", "123.45", "999999.99"}

	for _, raw := range amounts {
		amount := decimal.RequireFromString(raw)
		got := FromMinorUnits(ToMinorUnits(amount))
		if !got.Equal(amount) {
			t.Errorf("round trip of %s yielded %s", raw, got)
		}
	}
}
