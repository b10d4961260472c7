package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/escrow-desk/business/escrow/domain"
	"github.com/fd1az/escrow-desk/internal/logger"
	"github.com/fd1az/escrow-desk/internal/money"
	"github.com/fd1az/escrow-desk/internal/ratelimit"
)

var (
	testLandlord = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testTenant   = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

type fakeContractClient struct {
	ContractClient

	landlordIDs []uint64
	tenantIDs   []uint64
	landlordErr error
	tenantErr   error

	escrows    map[uint64]*domain.Agreement // nil value = malformed entry
	escrowErrs map[uint64]error
}

func (f *fakeContractClient) GetLandlordEscrows(_ context.Context, _ common.Address) ([]uint64, error) {
	return f.landlordIDs, f.landlordErr
}

func (f *fakeContractClient) GetTenantEscrows(_ context.Context, _ common.Address) ([]uint64, error) {
	return f.tenantIDs, f.tenantErr
}

func (f *fakeContractClient) GetEscrow(_ context.Context, id uint64) (*domain.Agreement, error) {
	if err, ok := f.escrowErrs[id]; ok {
		return nil, err
	}
	return f.escrows[id], nil
}

type fakeEstimator struct {
	estimates map[uint64]money.Amount
	err       error
}

func (f *fakeEstimator) EstimatedEscrowYield(_ context.Context, id uint64) (money.Amount, error) {
	if f.err != nil {
		return money.Zero, f.err
	}
	return f.estimates[id], nil
}

func testAgreement(id uint64) *domain.Agreement {
	now := time.Now()
	return &domain.Agreement{
		ID:              id,
		Landlord:        testLandlord,
		Tenant:          testTenant,
		PropertyName:    "Unit A",
		PropertyAddress: "1 First Ave",
		SecurityDeposit: money.FromBaseUnits(5_000_000),
		MonthlyRent:     money.FromBaseUnits(2_000_000),
		StartDate:       now.Add(-24 * time.Hour).Unix(),
		EndDate:         now.Add(24 * time.Hour).Unix(),
		LandlordSigned:  true,
		TenantSigned:    true,
		DepositedAmount: money.FromBaseUnits(5_000_000),
		CreatedAt:       now.Add(-48 * time.Hour).Unix(),
	}
}

func newTestDashboard(client ContractClient, yields YieldEstimator) *DashboardService {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	return NewDashboardService(client, yields, ratelimit.New(1000, 1000), log)
}

func TestDashboardLoad_UnionDedup(t *testing.T) {
	client := &fakeContractClient{
		landlordIDs: []uint64{3, 1},
		tenantIDs:   []uint64{2, 1},
		escrows: map[uint64]*domain.Agreement{
			1: testAgreement(1),
			2: testAgreement(2),
			3: testAgreement(3),
		},
	}
	svc := newTestDashboard(client, &fakeEstimator{})

	views, report, err := svc.Load(context.Background(), testLandlord)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if report.Degraded() {
		t.Errorf("report unexpectedly degraded: %+v", report)
	}

	// First-appearance order: landlord list first, then unseen tenant ids.
	wantOrder := []uint64{3, 1, 2}
	if len(views) != len(wantOrder) {
		t.Fatalf("got %d views, want %d", len(views), len(wantOrder))
	}
	for i, want := range wantOrder {
		if views[i].Agreement.ID != want {
			t.Errorf("views[%d].ID = %d, want %d", i, views[i].Agreement.ID, want)
		}
	}
}

func TestDashboardLoad_MalformedEntryDropped(t *testing.T) {
	client := &fakeContractClient{
		landlordIDs: []uint64{1, 2, 3, 4},
		escrows: map[uint64]*domain.Agreement{
			1: testAgreement(1),
			2: nil, // malformed on-chain entry
			3: testAgreement(3),
			4: testAgreement(4),
		},
	}
	svc := newTestDashboard(client, &fakeEstimator{})

	views, report, err := svc.Load(context.Background(), testLandlord)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantOrder := []uint64{1, 3, 4}
	if len(views) != len(wantOrder) {
		t.Fatalf("got %d views, want %d", len(views), len(wantOrder))
	}
	for i, want := range wantOrder {
		if views[i].Agreement.ID != want {
			t.Errorf("views[%d].ID = %d, want %d", i, views[i].Agreement.ID, want)
		}
	}
	if report.Dropped != 1 {
		t.Errorf("report.Dropped = %d, want 1", report.Dropped)
	}
}

func TestDashboardLoad_DetailFailureReported(t *testing.T) {
	client := &fakeContractClient{
		landlordIDs: []uint64{1, 2},
		escrows: map[uint64]*domain.Agreement{
			1: testAgreement(1),
		},
		escrowErrs: map[uint64]error{
			2: errors.New("rpc timeout"),
		},
	}
	svc := newTestDashboard(client, &fakeEstimator{})

	views, report, err := svc.Load(context.Background(), testLandlord)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(views) != 1 || views[0].Agreement.ID != 1 {
		t.Fatalf("expected only escrow 1, got %d views", len(views))
	}
	if len(report.FailedIDs) != 1 || report.FailedIDs[0] != 2 {
		t.Errorf("report.FailedIDs = %v, want [2]", report.FailedIDs)
	}
	if !report.Degraded() {
		t.Error("report should be degraded")
	}
}

func TestDashboardLoad_IDListFailureDegrades(t *testing.T) {
	client := &fakeContractClient{
		landlordIDs: nil,
		landlordErr: errors.New("rpc down"),
		tenantIDs:   []uint64{7},
		escrows: map[uint64]*domain.Agreement{
			7: testAgreement(7),
		},
	}
	svc := newTestDashboard(client, &fakeEstimator{})

	views, report, err := svc.Load(context.Background(), testTenant)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Tenant side still renders.
	if len(views) != 1 || views[0].Agreement.ID != 7 {
		t.Fatalf("expected escrow 7, got %d views", len(views))
	}
	if report.LandlordIDs.IsOk() {
		t.Error("landlord id result should carry the failure")
	}
	if !report.TenantIDs.IsOk() {
		t.Error("tenant id result should be ok")
	}
}

func TestDashboardLoad_YieldEstimateAttached(t *testing.T) {
	client := &fakeContractClient{
		landlordIDs: []uint64{1},
		escrows:     map[uint64]*domain.Agreement{1: testAgreement(1)},
	}
	estimate := money.FromBaseUnits(100_000) // 0.10 USDC of yield
	svc := newTestDashboard(client, &fakeEstimator{
		estimates: map[uint64]money.Amount{1: estimate},
	})

	views, _, err := svc.Load(context.Background(), testLandlord)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}

	v := views[0]
	if v.EstimatedYield.BaseUnits() != estimate.BaseUnits() {
		t.Errorf("EstimatedYield = %d, want %d", v.EstimatedYield.BaseUnits(), estimate.BaseUnits())
	}
	// 5% platform fee on 100_000 is 5_000.
	if v.PlatformFee.BaseUnits() != 5_000 {
		t.Errorf("PlatformFee = %d, want 5000", v.PlatformFee.BaseUnits())
	}
	if v.PlatformFee.MustAdd(v.LandlordYield).BaseUnits() != estimate.BaseUnits() {
		t.Error("fee split should sum to the estimate exactly")
	}
}

func TestDashboardLoad_YieldFailureKeepsRow(t *testing.T) {
	client := &fakeContractClient{
		landlordIDs: []uint64{1},
		escrows:     map[uint64]*domain.Agreement{1: testAgreement(1)},
	}
	svc := newTestDashboard(client, &fakeEstimator{err: errors.New("pool view down")})

	views, report, err := svc.Load(context.Background(), testLandlord)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("row should survive a yield estimate failure, got %d views", len(views))
	}
	if !views[0].EstimatedYield.IsZero() {
		t.Error("estimate should be zero when unavailable")
	}
	if len(report.FailedIDs) != 0 {
		t.Errorf("yield failure must not mark the escrow failed: %v", report.FailedIDs)
	}
}

func TestDashboardLoad_RoleAndActions(t *testing.T) {
	unsigned := testAgreement(1)
	unsigned.LandlordSigned = false

	client := &fakeContractClient{
		landlordIDs: []uint64{1},
		escrows:     map[uint64]*domain.Agreement{1: unsigned},
	}
	svc := newTestDashboard(client, &fakeEstimator{})

	views, _, err := svc.Load(context.Background(), testLandlord)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}

	v := views[0]
	if v.Role != domain.RoleLandlord {
		t.Errorf("Role = %v, want landlord", v.Role)
	}
	if v.Status != domain.StatusPendingSignatures {
		t.Errorf("Status = %v, want pending signatures", v.Status)
	}
	if len(v.Actions) != 1 || v.Actions[0] != domain.ActionSign {
		t.Errorf("Actions = %v, want [Sign Agreement]", v.Actions)
	}
}
