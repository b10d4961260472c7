// Package ethereum implements the ContractClient port against the
// rent escrow contract.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	gethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/escrow-desk/business/escrow/app"
	"github.com/fd1az/escrow-desk/business/escrow/domain"
	"github.com/fd1az/escrow-desk/internal/apperror"
	"github.com/fd1az/escrow-desk/internal/circuitbreaker"
	"github.com/fd1az/escrow-desk/internal/logger"
	"github.com/fd1az/escrow-desk/internal/money"
	"github.com/fd1az/escrow-desk/internal/wallet"
)

const (
	tracerName = "escrow-contract"
	meterName  = "escrow-contract"
)

// Ensure Client implements ContractClient.
var _ app.ContractClient = (*Client)(nil)

// clientMetrics holds OTEL metric instruments.
type clientMetrics struct {
	readsTotal metric.Int64Counter
	readErrors metric.Int64Counter
	txTotal    metric.Int64Counter
	txErrors   metric.Int64Counter
}

// Client is the escrow contract adapter. It is constructed once per
// process with an explicit lifecycle; there is no hidden singleton.
type Client struct {
	client   *ethclient.Client
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	signer   wallet.Signer

	logger logger.LoggerInterface
	cb     *circuitbreaker.CircuitBreaker[[]byte]

	tracer  trace.Tracer
	metrics *clientMetrics
}

// NewClient creates an escrow contract client. A nil signer leaves the
// client in read-only mode; writes fail with CodeNoSigner.
func NewClient(client *ethclient.Client, address common.Address, signer wallet.Signer, log logger.LoggerInterface) (*Client, error) {
	parsedABI, err := abi.JSON(strings.NewReader(RentEscrowABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse escrow ABI: %w", err)
	}

	c := &Client{
		client:   client,
		address:  address,
		abi:      parsedABI,
		contract: bind.NewBoundContract(address, parsedABI, client, client, client),
		signer:   signer,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}

	cbCfg := circuitbreaker.DefaultConfig("escrow-contract")
	c.cb = circuitbreaker.New[[]byte](cbCfg)

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return c, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.readsTotal, err = meter.Int64Counter(
		"escrow_contract_reads_total",
		metric.WithDescription("Total contract view calls"),
	)
	if err != nil {
		return err
	}

	c.metrics.readErrors, err = meter.Int64Counter(
		"escrow_contract_read_errors_total",
		metric.WithDescription("Total failed contract view calls"),
	)
	if err != nil {
		return err
	}

	c.metrics.txTotal, err = meter.Int64Counter(
		"escrow_contract_txs_total",
		metric.WithDescription("Total submitted transactions"),
	)
	if err != nil {
		return err
	}

	c.metrics.txErrors, err = meter.Int64Counter(
		"escrow_contract_tx_errors_total",
		metric.WithDescription("Total failed transaction submissions"),
	)
	if err != nil {
		return err
	}

	return nil
}

// call encodes and executes a view call through the circuit breaker.
func (c *Client) call(ctx context.Context, method string, args ...any) ([]any, error) {
	c.metrics.readsTotal.Add(ctx, 1)

	callData, err := c.abi.Pack(method, args...)
	if err != nil {
		c.metrics.readErrors.Add(ctx, 1)
		return nil, apperror.Wrap(err, apperror.CodeContractReadFailed,
			fmt.Sprintf("failed to encode %s call", method))
	}

	result, err := c.cb.Execute(func() ([]byte, error) {
		return c.client.CallContract(ctx, gethereum.CallMsg{
			To:   &c.address,
			Data: callData,
		}, nil)
	})
	if err != nil {
		c.metrics.readErrors.Add(ctx, 1)
		return nil, apperror.Wrap(err, apperror.CodeContractReadFailed,
			fmt.Sprintf("%s call failed", method))
	}

	outputs, err := c.abi.Unpack(method, result)
	if err != nil {
		c.metrics.readErrors.Add(ctx, 1)
		return nil, apperror.New(apperror.CodeMalformedResponse,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("failed to decode %s result", method)))
	}

	return outputs, nil
}

// transact submits a signed write through the bound contract.
func (c *Client) transact(ctx context.Context, method string, args ...any) (common.Hash, error) {
	if c.signer == nil {
		return common.Hash{}, apperror.New(apperror.CodeNoSigner,
			apperror.WithContext(fmt.Sprintf("%s requires a configured wallet", method)))
	}

	ctx, span := c.tracer.Start(ctx, "escrow."+method)
	defer span.End()

	c.metrics.txTotal.Add(ctx, 1)

	opts, err := c.signer.TransactOpts()
	if err != nil {
		c.metrics.txErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "signer unavailable")
		return common.Hash{}, err
	}
	opts.Context = ctx

	tx, err := c.contract.Transact(opts, method, args...)
	if err != nil {
		c.metrics.txErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, err.Error())
		return common.Hash{}, apperror.New(apperror.CodeTransactionRejected,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s transaction rejected", method)))
	}

	span.SetAttributes(attribute.String("tx_hash", tx.Hash().Hex()))
	span.SetStatus(codes.Ok, "submitted")

	c.logger.Info(ctx, "transaction submitted",
		"method", method,
		"tx_hash", tx.Hash().Hex(),
		"from", c.signer.Address().Hex(),
	)

	return tx.Hash(), nil
}

// Initialize submits the one-time contract setup transaction.
func (c *Client) Initialize(ctx context.Context) (common.Hash, error) {
	return c.transact(ctx, "initialize")
}

// CreateEscrow submits a state-creating transaction. The term dates
// are checked client-side before any network call; the contract
// enforces the same invariant authoritatively.
func (c *Client) CreateEscrow(ctx context.Context, params app.CreateEscrowParams) (common.Hash, error) {
	if params.PropertyName == "" || params.PropertyAddress == "" {
		return common.Hash{}, apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext("property name and address are required"))
	}
	if params.EndDate <= params.StartDate {
		return common.Hash{}, apperror.New(apperror.CodeInvalidTermDates,
			apperror.WithContext(fmt.Sprintf("end date %d must be after start date %d", params.EndDate, params.StartDate)))
	}
	if !params.SecurityDeposit.IsPositive() || !params.MonthlyRent.IsPositive() {
		return common.Hash{}, apperror.New(apperror.CodeInvalidAmount,
			apperror.WithContext("security deposit and monthly rent must be positive"))
	}

	return c.transact(ctx, "createEscrow",
		params.Tenant,
		params.PropertyName,
		params.PropertyAddress,
		params.SecurityDeposit.Big(),
		params.MonthlyRent.Big(),
		new(big.Int).SetInt64(params.StartDate),
		new(big.Int).SetInt64(params.EndDate),
	)
}

// SignEscrow submits a signing transaction for the caller. Whether the
// caller is actually a party is enforced by the contract.
func (c *Client) SignEscrow(ctx context.Context, escrowID uint64) (common.Hash, error) {
	return c.transact(ctx, "signEscrow", new(big.Int).SetUint64(escrowID))
}

// VerifyAaveDeposit records a pool supply on the escrow contract.
func (c *Client) VerifyAaveDeposit(ctx context.Context, escrowID uint64, amount money.Amount) (common.Hash, error) {
	return c.transact(ctx, "verifyAaveDeposit",
		new(big.Int).SetUint64(escrowID),
		amount.Big(),
	)
}

// SettleEscrow submits the terminal settlement transaction.
func (c *Client) SettleEscrow(ctx context.Context, escrowID uint64, asset common.Address) (common.Hash, error) {
	return c.transact(ctx, "settleEscrow",
		new(big.Int).SetUint64(escrowID),
		asset,
	)
}

// GetEscrow fetches one agreement. A malformed or short tuple returns
// (nil, nil) so batch loads can filter bad entries instead of failing.
func (c *Client) GetEscrow(ctx context.Context, escrowID uint64) (*domain.Agreement, error) {
	ctx, span := c.tracer.Start(ctx, "escrow.get_escrow",
		trace.WithAttributes(attribute.Int64("escrow_id", int64(escrowID))),
	)
	defer span.End()

	outputs, err := c.call(ctx, "getEscrow", new(big.Int).SetUint64(escrowID))
	if err != nil {
		if apperror.HasCode(err, apperror.CodeMalformedResponse) {
			span.AddEvent("malformed_escrow_filtered")
			return nil, nil
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	agreement, ok := parseAgreement(outputs)
	if !ok {
		span.AddEvent("malformed_escrow_filtered")
		c.logger.Warn(ctx, "malformed escrow tuple", "escrow_id", escrowID, "fields", len(outputs))
		return nil, nil
	}

	span.SetStatus(codes.Ok, "escrow loaded")
	return agreement, nil
}

// GetLandlordEscrows returns escrow ids owned by the address as
// landlord, in contract order.
func (c *Client) GetLandlordEscrows(ctx context.Context, landlord common.Address) ([]uint64, error) {
	return c.escrowIDs(ctx, "getLandlordEscrows", landlord)
}

// GetTenantEscrows returns escrow ids owned by the address as tenant,
// in contract order.
func (c *Client) GetTenantEscrows(ctx context.Context, tenant common.Address) ([]uint64, error) {
	return c.escrowIDs(ctx, "getTenantEscrows", tenant)
}

func (c *Client) escrowIDs(ctx context.Context, method string, owner common.Address) ([]uint64, error) {
	outputs, err := c.call(ctx, method, owner)
	if err != nil {
		return nil, err
	}
	if len(outputs) < 1 {
		return nil, malformed(method)
	}

	raw, ok := outputs[0].([]*big.Int)
	if !ok {
		return nil, malformed(method)
	}

	ids := make([]uint64, 0, len(raw))
	for _, id := range raw {
		if id == nil || !id.IsUint64() {
			continue
		}
		ids = append(ids, id.Uint64())
	}
	return ids, nil
}

// GetDepositStatus returns the contract's funding view of an escrow.
func (c *Client) GetDepositStatus(ctx context.Context, escrowID uint64) (domain.DepositStatus, error) {
	outputs, err := c.call(ctx, "getEscrowDepositStatus", new(big.Int).SetUint64(escrowID))
	if err != nil {
		return domain.DepositStatus{}, err
	}
	if len(outputs) < 2 {
		return domain.DepositStatus{}, malformed("getEscrowDepositStatus")
	}

	deposited, ok := outputs[0].(bool)
	if !ok {
		return domain.DepositStatus{}, malformed("getEscrowDepositStatus")
	}
	amount, ok := bigAmount(outputs[1])
	if !ok {
		return domain.DepositStatus{}, malformed("getEscrowDepositStatus")
	}

	return domain.DepositStatus{Deposited: deposited, Amount: amount}, nil
}

// GetResourceAccountAddress returns the contract's fund-custody
// account.
func (c *Client) GetResourceAccountAddress(ctx context.Context) (common.Address, error) {
	outputs, err := c.call(ctx, "getResourceAccountAddress")
	if err != nil {
		return common.Address{}, err
	}
	if len(outputs) < 1 {
		return common.Address{}, malformed("getResourceAccountAddress")
	}

	addr, ok := outputs[0].(common.Address)
	if !ok {
		return common.Address{}, malformed("getResourceAccountAddress")
	}
	return addr, nil
}

// GetContractUSDCBalance returns the contract's balance of the asset.
func (c *Client) GetContractUSDCBalance(ctx context.Context, asset common.Address) (money.Amount, error) {
	outputs, err := c.call(ctx, "getContractUsdcBalance", asset)
	if err != nil {
		return money.Zero, err
	}
	if len(outputs) < 1 {
		return money.Zero, malformed("getContractUsdcBalance")
	}

	amount, ok := bigAmount(outputs[0])
	if !ok {
		return money.Zero, malformed("getContractUsdcBalance")
	}
	return amount, nil
}

// parseAgreement converts the fixed-position getEscrow tuple into a
// domain Agreement. Any missing or mistyped field fails the parse.
func parseAgreement(outputs []any) (*domain.Agreement, bool) {
	if len(outputs) < escrowTupleLen {
		return nil, false
	}

	id, ok := bigUint64(outputs[0])
	if !ok {
		return nil, false
	}
	landlord, ok := outputs[1].(common.Address)
	if !ok {
		return nil, false
	}
	tenant, ok := outputs[2].(common.Address)
	if !ok {
		return nil, false
	}
	propertyName, ok := outputs[3].(string)
	if !ok {
		return nil, false
	}
	propertyAddress, ok := outputs[4].(string)
	if !ok {
		return nil, false
	}
	securityDeposit, ok := bigAmount(outputs[5])
	if !ok {
		return nil, false
	}
	monthlyRent, ok := bigAmount(outputs[6])
	if !ok {
		return nil, false
	}
	startDate, ok := bigUint64(outputs[7])
	if !ok {
		return nil, false
	}
	endDate, ok := bigUint64(outputs[8])
	if !ok {
		return nil, false
	}
	landlordSigned, ok := outputs[9].(bool)
	if !ok {
		return nil, false
	}
	tenantSigned, ok := outputs[10].(bool)
	if !ok {
		return nil, false
	}
	depositedAmount, ok := bigAmount(outputs[11])
	if !ok {
		return nil, false
	}
	settled, ok := outputs[12].(bool)
	if !ok {
		return nil, false
	}
	createdAt, ok := bigUint64(outputs[13])
	if !ok {
		return nil, false
	}

	return &domain.Agreement{
		ID:              id,
		Landlord:        landlord,
		Tenant:          tenant,
		PropertyName:    propertyName,
		PropertyAddress: propertyAddress,
		SecurityDeposit: securityDeposit,
		MonthlyRent:     monthlyRent,
		StartDate:       int64(startDate),
		EndDate:         int64(endDate),
		LandlordSigned:  landlordSigned,
		TenantSigned:    tenantSigned,
		DepositedAmount: depositedAmount,
		Settled:         settled,
		CreatedAt:       int64(createdAt),
	}, true
}

func bigUint64(v any) (uint64, bool) {
	b, ok := v.(*big.Int)
	if !ok || b == nil || !b.IsUint64() {
		return 0, false
	}
	return b.Uint64(), true
}

func bigAmount(v any) (money.Amount, bool) {
	b, ok := v.(*big.Int)
	if !ok || b == nil {
		return money.Zero, false
	}
	amount, err := money.FromBig(b)
	if err != nil {
		return money.Zero, false
	}
	return amount, true
}

func malformed(method string) *apperror.AppError {
	return apperror.New(apperror.CodeMalformedResponse,
		apperror.WithContext(fmt.Sprintf("unexpected %s response shape", method)))
}
