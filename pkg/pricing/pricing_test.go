package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, field, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", field, want, got)
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		want  Result
		total string
	}{
		{
			name:  "heavy load with zero base pays only the extra fee",
			in:    Input{DistanceKm: dec("0"), RateDistance: dec("0"), WeightKg: dec("60"), RateWeight: dec("0"), DeliveryType: "normal"},
			want:  Result{DistanceCharge: dec("0"), WeightCharge: dec("0"), Surcharge: dec("0"), Discount: dec("0")},
			total: "15",
		},
		{
			name:  "urgent below discount threshold",
			in:    Input{DistanceKm: dec("100"), RateDistance: dec("3"), WeightKg: dec("10"), RateWeight: dec("2"), DeliveryType: "Urgente"},
			want:  Result{DistanceCharge: dec("300"), WeightCharge: dec("20"), Surcharge: dec("64"), Discount: dec("32")},
			total: "384",
		},
		{
			name:  "high value discount",
			in:    Input{DistanceKm: dec("100"), RateDistance: dec("5"), WeightKg: dec("10"), RateWeight: dec("10"), DeliveryType: "normal"},
			want:  Result{DistanceCharge: dec("500"), WeightCharge: dec("100"), Surcharge: dec("120"), Discount: dec("60")},
			total: "540",
		},
		{
			name:  "heavy urgent high value applies fee then surcharge then discount",
			in:    Input{DistanceKm: dec("120"), RateDistance: dec("4"), WeightKg: dec("60"), RateWeight: dec("2"), DeliveryType: "urgent"},
			want:  Result{DistanceCharge: dec("480"), WeightCharge: dec("120"), Surcharge: dec("120"), Discount: dec("60")},
			total: "675",
		},
		{
			name:  "exactly fifty kilograms is not heavy",
			in:    Input{DistanceKm: dec("10"), RateDistance: dec("1"), WeightKg: dec("50"), RateWeight: dec("1"), DeliveryType: "normal"},
			want:  Result{DistanceCharge: dec("10"), WeightCharge: dec("50"), Surcharge: dec("12"), Discount: dec("6")},
			total: "60",
		},
		{
			name:  "threshold reached only through the surcharge",
			in:    Input{DistanceKm: dec("100"), RateDistance: dec("4"), WeightKg: dec("10"), RateWeight: dec("2"), DeliveryType: "URGENT"},
			want:  Result{DistanceCharge: dec("400"), WeightCharge: dec("20"), Surcharge: dec("84"), Discount: dec("42")},
			total: "462",
		},
		{
			name:  "fractional inputs round to cents",
			in:    Input{DistanceKm: dec("10.5"), RateDistance: dec("2.35"), WeightKg: dec("3.333"), RateWeight: dec("1"), DeliveryType: "normal"},
			want:  Result{DistanceCharge: dec("24.68"), WeightCharge: dec("3.33"), Surcharge: dec("5.6"), Discount: dec("2.8")},
			total: "28.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.in)
			assertMoney(t, "distanceCharge", tt.want.DistanceCharge.String(), got.DistanceCharge)
			assertMoney(t, "weightCharge", tt.want.WeightCharge.String(), got.WeightCharge)
			assertMoney(t, "surcharge", tt.want.Surcharge.String(), got.Surcharge)
			assertMoney(t, "discount", tt.want.Discount.String(), got.Discount)
			assertMoney(t, "extraFee", "15", got.ExtraFee)
			assertMoney(t, "total", tt.total, got.Total)
			if got.Status != StatusCalculated {
				t.Errorf("expected status %q, got %q", StatusCalculated, got.Status)
			}
		})
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	in := Input{DistanceKm: dec("87.25"), RateDistance: dec("3.1"), WeightKg: dec("51"), RateWeight: dec("1.75"), DeliveryType: "urgente"}
	first := Compute(in)
	for i := 0; i < 100; i++ {
		got := Compute(in)
		if !got.Total.Equal(first.Total) || !got.Surcharge.Equal(first.Surcharge) || !got.Discount.Equal(first.Discount) ||
			!got.DistanceCharge.Equal(first.DistanceCharge) || !got.WeightCharge.Equal(first.WeightCharge) {
			t.Fatalf("run %d: expected %+v, got %+v", i, first, got)
		}
	}
}

func TestIsUrgent(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"urgent", true},
		{"Urgente", true},
		{"URGENTE", true},
		{"normal", false},
		{"", false},
		{"urgently", false},
	}
	for _, tt := range tests {
		if got := IsUrgent(tt.in); got != tt.want {
			t.Errorf("IsUrgent(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
