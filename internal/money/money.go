// Package money provides a type-safe model for USDC amounts.
// The core uses integer base units for exact on-chain representation.
// decimal.Decimal is only used at boundaries (UI, parsing, display).
package money

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// USDC uses 6 implied decimal places on chain.
const (
	Decimals = 6
	Scale    = 1_000_000
)

// Platform fee, in basis points. Duplicated client-side from the
// contract's configured rate; splits computed here are display
// estimates only, the contract enforces the authoritative split at
// settlement.
const (
	PlatformFeeBasisPoints = 500
	basisPointDivisor      = 10_000
)

// Common errors
var (
	ErrNegativeAmount = errors.New("money: negative amount")
	ErrOverflow       = errors.New("money: amount overflow")
	ErrNegativeResult = errors.New("money: operation would result in negative amount")
	ErrInvalidString  = errors.New("money: invalid decimal string")
)

// Amount is an immutable value object holding a USDC quantity in base
// units (millionths).
type Amount struct {
	raw uint64
}

// Zero is the zero Amount.
var Zero = Amount{}

// FromBaseUnits creates an Amount from a raw base-unit value.
func FromBaseUnits(raw uint64) Amount {
	return Amount{raw: raw}
}

// FromBig creates an Amount from a big.Int base-unit value as returned
// by contract calls. Fails on negative values or values past uint64.
func FromBig(raw *big.Int) (Amount, error) {
	if raw == nil {
		return Amount{}, nil
	}
	if raw.Sign() < 0 {
		return Amount{}, ErrNegativeAmount
	}
	if !raw.IsUint64() {
		return Amount{}, ErrOverflow
	}
	return Amount{raw: raw.Uint64()}, nil
}

// ParseDecimal creates an Amount from a decimal value, truncating
// toward zero past six decimal places.
// This is a BOUNDARY function - use for parsing user input.
func ParseDecimal(d decimal.Decimal) (Amount, error) {
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}

	scaled := d.Shift(Decimals).Truncate(0)
	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return Amount{}, ErrOverflow
	}
	return Amount{raw: bi.Uint64()}, nil
}

// ParseString creates an Amount from a string decimal value.
func ParseString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidString, s)
	}
	return ParseDecimal(d)
}

// BaseUnits returns the raw base-unit value.
func (a Amount) BaseUnits() uint64 {
	return a.raw
}

// Big returns the raw value as a big.Int for contract call arguments.
func (a Amount) Big() *big.Int {
	return new(big.Int).SetUint64(a.raw)
}

// ToDecimal converts to a display decimal at 6-decimal scale.
func (a Amount) ToDecimal() decimal.Decimal {
	return decimal.NewFromUint64(a.raw).Shift(-Decimals)
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.raw == 0
}

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.raw > 0
}

// Add adds two amounts.
func (a Amount) Add(b Amount) (Amount, error) {
	if a.raw > math.MaxUint64-b.raw {
		return Amount{}, ErrOverflow
	}
	return Amount{raw: a.raw + b.raw}, nil
}

// Sub subtracts b from a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.raw < b.raw {
		return Amount{}, ErrNegativeResult
	}
	return Amount{raw: a.raw - b.raw}, nil
}

// MustAdd adds two amounts, panics on overflow.
func (a Amount) MustAdd(b Amount) Amount {
	sum, err := a.Add(b)
	if err != nil {
		panic(err)
	}
	return sum
}

// Cmp compares a to b: -1 if a < b, 0 if equal, 1 if a > b.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.raw < b.raw:
		return -1
	case a.raw > b.raw:
		return 1
	default:
		return 0
	}
}

// String returns a human-readable representation (e.g., "1.50 USDC").
func (a Amount) String() string {
	return a.ToDecimal().StringFixed(2) + " USDC"
}

// StringFixed returns the bare decimal string with fixed places.
func (a Amount) StringFixed(places int32) string {
	return a.ToDecimal().StringFixed(places)
}

// FeeSplit divides a yield amount into the platform fee and the
// landlord share. Integer basis-point math: the two parts always sum
// back to the input exactly.
func FeeSplit(yield Amount) (platform, landlord Amount) {
	fee := yield.raw * PlatformFeeBasisPoints / basisPointDivisor
	return Amount{raw: fee}, Amount{raw: yield.raw - fee}
}
