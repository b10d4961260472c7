package money_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/escrow-desk/internal/money"
)

func TestAmount_RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 999_999, 1_000_000, 5_000_000, 123_456_789_012}

	for _, raw := range cases {
		a := money.FromBaseUnits(raw)
		parsed, err := money.ParseDecimal(a.ToDecimal())
		if err != nil {
			t.Fatalf("ParseDecimal(%d): unexpected error: %v", raw, err)
		}
		if parsed.BaseUnits() != raw {
			t.Errorf("round trip %d: got %d", raw, parsed.BaseUnits())
		}
	}
}

func TestParseDecimal_TruncatesTowardZero(t *testing.T) {
	// 1.2345678 has seven decimals; the seventh is dropped, not rounded.
	d := decimal.RequireFromString("1.2345678")
	a, err := money.ParseDecimal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.BaseUnits() != 1_234_567 {
		t.Errorf("expected 1234567, got %d", a.BaseUnits())
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"5", 5_000_000, false},
		{"0.5", 500_000, false},
		{"1250.75", 1_250_750_000, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := money.ParseString(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseString(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseString(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got.BaseUnits() != tt.want {
			t.Errorf("ParseString(%q) = %d, want %d", tt.in, got.BaseUnits(), tt.want)
		}
	}
}

func TestFromBig(t *testing.T) {
	a, err := money.FromBig(big.NewInt(2_500_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.StringFixed(2) != "2.50" {
		t.Errorf("expected 2.50, got %s", a.StringFixed(2))
	}

	if _, err := money.FromBig(big.NewInt(-1)); err == nil {
		t.Error("expected error for negative value")
	}

	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	if _, err := money.FromBig(huge); err == nil {
		t.Error("expected overflow error")
	}
}

func TestFeeSplit_Exact(t *testing.T) {
	cases := []uint64{0, 1, 19, 20, 10_000, 1_000_000, 333_333, 777_777_777}

	for _, raw := range cases {
		yield := money.FromBaseUnits(raw)
		platform, landlord := money.FeeSplit(yield)

		if platform.BaseUnits()+landlord.BaseUnits() != raw {
			t.Errorf("split of %d leaks: %d + %d", raw, platform.BaseUnits(), landlord.BaseUnits())
		}
		want := raw * money.PlatformFeeBasisPoints / 10_000
		if platform.BaseUnits() != want {
			t.Errorf("platform fee of %d = %d, want %d", raw, platform.BaseUnits(), want)
		}
	}
}

func TestAmount_SubNegative(t *testing.T) {
	one := money.FromBaseUnits(1_000_000)
	two := money.FromBaseUnits(2_000_000)

	if _, err := one.Sub(two); err == nil {
		t.Error("expected error for negative result")
	}

	diff, err := two.Sub(one)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff.BaseUnits() != 1_000_000 {
		t.Errorf("expected 1000000, got %d", diff.BaseUnits())
	}
}

func TestAmount_String(t *testing.T) {
	a := money.FromBaseUnits(5_000_000)
	if a.String() != "5.00 USDC" {
		t.Errorf("expected '5.00 USDC', got %q", a.String())
	}
}
