package ethereum

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func validEscrowTuple() []any {
	return []any{
		big.NewInt(7),
		common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		"Sunset Flat",
		"9 Ocean Dr",
		big.NewInt(5_000_000),
		big.NewInt(2_000_000),
		big.NewInt(1_700_000_000),
		big.NewInt(1_731_536_000),
		true,
		false,
		big.NewInt(0),
		false,
		big.NewInt(1_699_990_000),
	}
}

func TestParseAgreement(t *testing.T) {
	agreement, ok := parseAgreement(validEscrowTuple())
	if !ok {
		t.Fatal("valid tuple should parse")
	}

	if agreement.ID != 7 {
		t.Errorf("ID = %d, want 7", agreement.ID)
	}
	if agreement.PropertyName != "Sunset Flat" {
		t.Errorf("PropertyName = %q", agreement.PropertyName)
	}
	if agreement.SecurityDeposit.BaseUnits() != 5_000_000 {
		t.Errorf("SecurityDeposit = %d, want 5000000", agreement.SecurityDeposit.BaseUnits())
	}
	if !agreement.LandlordSigned || agreement.TenantSigned {
		t.Error("signature flags mismatched")
	}
	if agreement.Settled {
		t.Error("Settled should be false")
	}
	if agreement.CreatedAt != 1_699_990_000 {
		t.Errorf("CreatedAt = %d", agreement.CreatedAt)
	}
}

func TestParseAgreement_ShortTuple(t *testing.T) {
	for n := 0; n < escrowTupleLen; n++ {
		if _, ok := parseAgreement(validEscrowTuple()[:n]); ok {
			t.Errorf("tuple of %d fields should not parse", n)
		}
	}
}

func TestParseAgreement_MistypedField(t *testing.T) {
	tests := []struct {
		name  string
		index int
		value any
	}{
		{"id_as_string", 0, "7"},
		{"landlord_as_string", 1, "0xaaaa"},
		{"name_as_int", 3, big.NewInt(1)},
		{"deposit_nil", 5, (*big.Int)(nil)},
		{"signed_as_int", 9, big.NewInt(1)},
		{"deposited_negative", 11, big.NewInt(-1)},
		{"created_as_bool", 13, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuple := validEscrowTuple()
			tuple[tt.index] = tt.value
			if _, ok := parseAgreement(tuple); ok {
				t.Error("mistyped tuple should not parse")
			}
		})
	}
}

func TestBigUint64(t *testing.T) {
	if v, ok := bigUint64(big.NewInt(42)); !ok || v != 42 {
		t.Errorf("bigUint64(42) = %d, %v", v, ok)
	}
	if _, ok := bigUint64(big.NewInt(-1)); ok {
		t.Error("negative values should not convert")
	}
	if _, ok := bigUint64(nil); ok {
		t.Error("nil should not convert")
	}
	overflow := new(big.Int).Lsh(big.NewInt(1), 64)
	if _, ok := bigUint64(overflow); ok {
		t.Error("values over uint64 should not convert")
	}
}
