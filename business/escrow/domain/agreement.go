// Package domain contains the escrow bounded context's core types.
package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/escrow-desk/internal/money"
)

// Agreement is a rental escrow agreement read from the contract. It
// is immutable per fetch; the authoritative state lives on chain and
// is refreshed by re-querying.
type Agreement struct {
	ID              uint64
	Landlord        common.Address
	Tenant          common.Address
	PropertyName    string
	PropertyAddress string
	SecurityDeposit money.Amount
	MonthlyRent     money.Amount
	StartDate       int64 // unix seconds
	EndDate         int64 // unix seconds
	LandlordSigned  bool
	TenantSigned    bool
	DepositedAmount money.Amount
	Settled         bool
	CreatedAt       int64 // unix seconds
}

// SignaturesComplete reports whether both parties have signed.
func (a *Agreement) SignaturesComplete() bool {
	return a.LandlordSigned && a.TenantSigned
}

// Funded reports whether the tenant has deposited any principal.
func (a *Agreement) Funded() bool {
	return a.DepositedAmount.IsPositive()
}

// TermEnded reports whether the rental term has elapsed at the given
// wall-clock time. The boundary is strict: endDate itself is still
// within the term.
func (a *Agreement) TermEnded(now time.Time) bool {
	return now.Unix() > a.EndDate
}

// TermDuration returns the agreed rental term length in seconds.
func (a *Agreement) TermDuration() int64 {
	return a.EndDate - a.StartDate
}

// ElapsedSince returns seconds elapsed since creation, clamped to zero.
func (a *Agreement) ElapsedSince(now time.Time) int64 {
	elapsed := now.Unix() - a.CreatedAt
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// IsParty reports whether addr is the landlord or tenant of this
// agreement.
func (a *Agreement) IsParty(addr common.Address) bool {
	return addr == a.Landlord || addr == a.Tenant
}

// DepositStatus is the contract's view of an escrow's funding state.
type DepositStatus struct {
	Deposited bool
	Amount    money.Amount
}
