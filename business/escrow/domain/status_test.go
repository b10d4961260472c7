package domain

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/escrow-desk/internal/money"
)

var (
	landlordAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")
	tenantAddr   = common.HexToAddress("0x2222222222222222222222222222222222222222")
	strangerAddr = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func agreementAt(now time.Time, mutate func(*Agreement)) *Agreement {
	a := &Agreement{
		ID:              1,
		Landlord:        landlordAddr,
		Tenant:          tenantAddr,
		PropertyName:    "Maple Loft",
		PropertyAddress: "12 Maple St",
		SecurityDeposit: money.FromBaseUnits(5_000_000),
		MonthlyRent:     money.FromBaseUnits(2_000_000),
		StartDate:       now.Add(-30 * 24 * time.Hour).Unix(),
		EndDate:         now.Add(30 * 24 * time.Hour).Unix(),
		LandlordSigned:  true,
		TenantSigned:    true,
		DepositedAmount: money.FromBaseUnits(5_000_000),
		Settled:         false,
		CreatedAt:       now.Add(-31 * 24 * time.Hour).Unix(),
	}
	if mutate != nil {
		mutate(a)
	}
	return a
}

func TestDeriveStatus(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name   string
		mutate func(*Agreement)
		want   Status
	}{
		{
			name:   "fully_funded_in_term_is_active",
			mutate: nil,
			want:   StatusActive,
		},
		{
			name: "settled_wins_over_everything",
			mutate: func(a *Agreement) {
				a.Settled = true
				a.LandlordSigned = false
				a.DepositedAmount = money.Zero
			},
			want: StatusSettled,
		},
		{
			name: "missing_landlord_signature",
			mutate: func(a *Agreement) {
				a.LandlordSigned = false
			},
			want: StatusPendingSignatures,
		},
		{
			name: "missing_tenant_signature",
			mutate: func(a *Agreement) {
				a.TenantSigned = false
			},
			want: StatusPendingSignatures,
		},
		{
			name: "signatures_precede_deposit_check",
			mutate: func(a *Agreement) {
				a.TenantSigned = false
				a.DepositedAmount = money.Zero
			},
			want: StatusPendingSignatures,
		},
		{
			name: "signed_but_unfunded",
			mutate: func(a *Agreement) {
				a.DepositedAmount = money.Zero
			},
			want: StatusAwaitingDeposit,
		},
		{
			name: "funded_and_term_ended",
			mutate: func(a *Agreement) {
				a.EndDate = now.Add(-time.Hour).Unix()
			},
			want: StatusReadyToSettle,
		},
		{
			name: "unfunded_term_ended_still_awaiting_deposit",
			mutate: func(a *Agreement) {
				a.DepositedAmount = money.Zero
				a.EndDate = now.Add(-time.Hour).Unix()
			},
			want: StatusAwaitingDeposit,
		},
		{
			name: "end_date_boundary_is_still_active",
			mutate: func(a *Agreement) {
				a.EndDate = now.Unix()
			},
			want: StatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := agreementAt(now, tt.mutate)
			if got := DeriveStatus(a, now); got != tt.want {
				t.Errorf("DeriveStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriveRole(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	a := agreementAt(now, nil)

	tests := []struct {
		name   string
		caller common.Address
		want   Role
	}{
		{"landlord", landlordAddr, RoleLandlord},
		{"tenant", tenantAddr, RoleTenant},
		{"stranger", strangerAddr, RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveRole(a, tt.caller); got != tt.want {
				t.Errorf("DeriveRole() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActionsFor(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name   string
		mutate func(*Agreement)
		role   Role
		want   []Action
	}{
		{
			name: "landlord_must_sign",
			mutate: func(a *Agreement) {
				a.LandlordSigned = false
			},
			role: RoleLandlord,
			want: []Action{ActionSign},
		},
		{
			name: "tenant_already_signed_waits",
			mutate: func(a *Agreement) {
				a.LandlordSigned = false
			},
			role: RoleTenant,
			want: nil,
		},
		{
			name: "tenant_deposits_when_signed",
			mutate: func(a *Agreement) {
				a.DepositedAmount = money.Zero
			},
			role: RoleTenant,
			want: []Action{ActionDeposit},
		},
		{
			name: "landlord_gets_no_deposit_action",
			mutate: func(a *Agreement) {
				a.DepositedAmount = money.Zero
			},
			role: RoleLandlord,
			want: nil,
		},
		{
			name: "either_party_settles_after_term",
			mutate: func(a *Agreement) {
				a.EndDate = now.Add(-time.Hour).Unix()
			},
			role: RoleLandlord,
			want: []Action{ActionSettle},
		},
		{
			name: "tenant_settles_after_term",
			mutate: func(a *Agreement) {
				a.EndDate = now.Add(-time.Hour).Unix()
			},
			role: RoleTenant,
			want: []Action{ActionSettle},
		},
		{
			name: "settled_offers_nothing",
			mutate: func(a *Agreement) {
				a.Settled = true
			},
			role: RoleLandlord,
			want: nil,
		},
		{
			name: "active_offers_nothing",
			mutate: nil,
			role: RoleTenant,
			want: nil,
		},
		{
			name: "observer_never_gets_actions",
			mutate: func(a *Agreement) {
				a.EndDate = now.Add(-time.Hour).Unix()
			},
			role: RoleNone,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := agreementAt(now, tt.mutate)
			got := ActionsFor(a, tt.role, now)

			if len(got) != len(tt.want) {
				t.Fatalf("ActionsFor() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ActionsFor()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusSettled, "Settled"},
		{StatusPendingSignatures, "Pending Signatures"},
		{StatusAwaitingDeposit, "Awaiting Deposit"},
		{StatusReadyToSettle, "Ready to Settle"},
		{StatusActive, "Active"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
