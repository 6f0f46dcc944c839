package projection

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRequiredInvestment_Concrete(t *testing.T) {
	// target=1000 at 10% over 2 cycles with nothing committed:
	// 1000 / 1.10^2 = 826.446... -> 826.45
	res, err := RequiredInvestment(d("1000"), d("0.10"), 2, decimal.Zero)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !res.FutureValueOfCommitted.IsZero() {
		t.Fatalf("futureValue=%s want=0", res.FutureValueOfCommitted)
	}
	if res.Shortfall.Cmp(d("1000")) != 0 {
		t.Fatalf("shortfall=%s want=1000", res.Shortfall)
	}
	if res.Required.Cmp(d("826.45")) != 0 {
		t.Fatalf("required=%s want=826.45", res.Required)
	}
}

func TestRequiredInvestment_ZeroShortfall(t *testing.T) {
	// 200 * 1.05^3 = 231.525 already exceeds 100.
	res, err := RequiredInvestment(d("100"), d("0.05"), 3, d("200"))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !res.Required.IsZero() {
		t.Fatalf("required=%s want=0", res.Required)
	}
	if res.FutureValueOfCommitted.Cmp(d("231.53")) != 0 {
		t.Fatalf("futureValue=%s want=231.53", res.FutureValueOfCommitted)
	}
}

func TestRequiredInvestment_RoundTrip(t *testing.T) {
	targets := []string{"1000", "2500.75", "333333.33"}
	rates := []string{"0.004", "0.04", "0.095", "0.24"}
	for _, ts := range targets {
		for _, rs := range rates {
			for _, cycles := range []int{1, 3, 12} {
				target := d(ts)
				rate := d(rs)
				res, err := RequiredInvestment(target, rate, cycles, decimal.Zero)
				if err != nil {
					t.Fatalf("target=%s rate=%s cycles=%d: err=%v", ts, rs, cycles, err)
				}
				growth := decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(int64(cycles)))
				final := res.Required.Mul(growth)
				diff := final.Sub(target).Abs()
				if diff.GreaterThan(d("0.01").Mul(growth)) {
					t.Fatalf("target=%s rate=%s cycles=%d: final=%s drifts by %s", ts, rs, cycles, final, diff)
				}
			}
		}
	}
}

func TestRequiredInvestment_MonotonicInCommitted(t *testing.T) {
	target := d("10000")
	rate := d("0.05")
	prev := decimal.NewFromInt(1 << 30)
	for _, committed := range []string{"0", "100", "1000", "5000", "9000", "20000"} {
		res, err := RequiredInvestment(target, rate, 4, d(committed))
		if err != nil {
			t.Fatalf("committed=%s: err=%v", committed, err)
		}
		if res.Required.GreaterThan(prev) {
			t.Fatalf("committed=%s: required=%s increased from %s", committed, res.Required, prev)
		}
		prev = res.Required
	}
}

func TestRequiredInvestment_InvalidInputs(t *testing.T) {
	cases := []struct {
		name      string
		target    string
		rate      string
		cycles    int
		committed string
	}{
		{"zero target", "0", "0.05", 3, "0"},
		{"negative target", "-10", "0.05", 3, "0"},
		{"negative rate", "100", "-0.01", 3, "0"},
		{"zero cycles", "100", "0.05", 0, "0"},
		{"negative committed", "100", "0.05", 3, "-1"},
	}
	for _, tt := range cases {
		if _, err := RequiredInvestment(d(tt.target), d(tt.rate), tt.cycles, d(tt.committed)); !errors.Is(err, ErrInvalidProjectionInput) {
			t.Fatalf("%s: err=%v want ErrInvalidProjectionInput", tt.name, err)
		}
	}
}

func TestGrowthSchedule_Chains(t *testing.T) {
	rows, err := GrowthSchedule(d("1000"), d("0.24"), 3)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows=%d want=3", len(rows))
	}
	if rows[0].Yield.Cmp(d("240")) != 0 {
		t.Fatalf("first yield=%s want=240", rows[0].Yield)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Cycle != i+1 {
			t.Fatalf("row %d: cycle=%d want=%d", i, rows[i].Cycle, i+1)
		}
		if rows[i].Opening.Cmp(rows[i-1].Closing) != 0 {
			t.Fatalf("row %d: opening=%s want=%s", i, rows[i].Opening, rows[i-1].Closing)
		}
		if rows[i].Closing.Cmp(rows[i].Opening.Add(rows[i].Yield)) != 0 {
			t.Fatalf("row %d: closing=%s mismatch", i, rows[i].Closing)
		}
	}
}

func TestGrowthSchedule_Invalid(t *testing.T) {
	if _, err := GrowthSchedule(decimal.Zero, d("0.05"), 3); !errors.Is(err, ErrInvalidProjectionInput) {
		t.Fatalf("err=%v want ErrInvalidProjectionInput", err)
	}
	if _, err := GrowthSchedule(d("100"), d("0.05"), 0); !errors.Is(err, ErrInvalidProjectionInput) {
		t.Fatalf("err=%v want ErrInvalidProjectionInput", err)
	}
}

func TestRoundToStep(t *testing.T) {
	tests := []struct {
		in   string
		step int64
		want string
	}{
		{"48980", 500, "49000"},
		{"48700", 500, "48500"},
		{"48750", 500, "49000"},
		{"250", 500, "500"},
		{"249.99", 500, "0"},
		{"-100", 500, "0"},
		{"1234.56", 0, "1234.56"},
	}
	for _, tt := range tests {
		got := RoundToStep(d(tt.in), tt.step)
		if got.Cmp(d(tt.want)) != 0 {
			t.Fatalf("RoundToStep(%s, %d) = %s, want %s", tt.in, tt.step, got, tt.want)
		}
	}
}
