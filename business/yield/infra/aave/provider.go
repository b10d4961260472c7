// Package aave implements the PoolProvider and PoolSupplier ports
// against the Aave V3 pool and the escrow contract's position views.
package aave

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

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

	escrowapp "github.com/fd1az/escrow-desk/business/escrow/app"
	"github.com/fd1az/escrow-desk/business/yield/app"
	"github.com/fd1az/escrow-desk/business/yield/domain"
	"github.com/fd1az/escrow-desk/internal/apperror"
	"github.com/fd1az/escrow-desk/internal/cache"
	"github.com/fd1az/escrow-desk/internal/circuitbreaker"
	"github.com/fd1az/escrow-desk/internal/logger"
	"github.com/fd1az/escrow-desk/internal/money"
	"github.com/fd1az/escrow-desk/internal/wallet"
)

const (
	tracerName = "aave"
	meterName  = "aave"

	apyCacheKey = "apy"
)

// Ensure Provider implements both ports.
var (
	_ app.PoolProvider       = (*Provider)(nil)
	_ escrowapp.PoolSupplier = (*Provider)(nil)
)

type providerMetrics struct {
	queriesTotal  metric.Int64Counter
	queryErrors   metric.Int64Counter
	suppliesTotal metric.Int64Counter
}

// Provider queries yield views on the escrow contract and supplies
// funds into the Aave pool.
type Provider struct {
	client       *ethclient.Client
	escrowAddr   common.Address
	viewsABI     abi.ABI
	pool         *bind.BoundContract
	referralCode uint16
	signer       wallet.Signer

	logger   logger.LoggerInterface
	cb       *circuitbreaker.CircuitBreaker[[]byte]
	apyCache *cache.Cache[string, float64]

	tracer  trace.Tracer
	metrics *providerMetrics
}

// NewProvider creates an Aave provider. The APY cache TTL bounds how
// stale a displayed rate can be between polls.
func NewProvider(client *ethclient.Client, escrowAddr, poolAddr common.Address, referralCode uint16, apyTTL time.Duration, signer wallet.Signer, log logger.LoggerInterface) (*Provider, error) {
	viewsABI, err := abi.JSON(strings.NewReader(YieldViewsABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse yield views ABI: %w", err)
	}

	poolABI, err := abi.JSON(strings.NewReader(PoolABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool ABI: %w", err)
	}

	p := &Provider{
		client:       client,
		escrowAddr:   escrowAddr,
		viewsABI:     viewsABI,
		pool:         bind.NewBoundContract(poolAddr, poolABI, client, client, client),
		referralCode: referralCode,
		signer:       signer,
		logger:       log,
		apyCache:     cache.New[string, float64](apyTTL),
		tracer:       otel.Tracer(tracerName),
	}

	cbCfg := circuitbreaker.DefaultConfig("aave-views")
	p.cb = circuitbreaker.New[[]byte](cbCfg)

	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return p, nil
}

func (p *Provider) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &providerMetrics{}

	p.metrics.queriesTotal, err = meter.Int64Counter(
		"aave_queries_total",
		metric.WithDescription("Total yield view queries"),
	)
	if err != nil {
		return err
	}

	p.metrics.queryErrors, err = meter.Int64Counter(
		"aave_query_errors_total",
		metric.WithDescription("Total failed yield view queries"),
	)
	if err != nil {
		return err
	}

	p.metrics.suppliesTotal, err = meter.Int64Counter(
		"aave_supplies_total",
		metric.WithDescription("Total pool supply transactions"),
	)
	if err != nil {
		return err
	}

	return nil
}

func (p *Provider) call(ctx context.Context, method string, args ...any) ([]any, error) {
	p.metrics.queriesTotal.Add(ctx, 1)

	callData, err := p.viewsABI.Pack(method, args...)
	if err != nil {
		p.metrics.queryErrors.Add(ctx, 1)
		return nil, apperror.Wrap(err, apperror.CodeYieldQueryFailed,
			fmt.Sprintf("failed to encode %s call", method))
	}

	result, err := p.cb.Execute(func() ([]byte, error) {
		return p.client.CallContract(ctx, gethereum.CallMsg{
			To:   &p.escrowAddr,
			Data: callData,
		}, nil)
	})
	if err != nil {
		p.metrics.queryErrors.Add(ctx, 1)
		return nil, apperror.Wrap(err, apperror.CodeYieldQueryFailed,
			fmt.Sprintf("%s call failed", method))
	}

	outputs, err := p.viewsABI.Unpack(method, result)
	if err != nil {
		p.metrics.queryErrors.Add(ctx, 1)
		return nil, apperror.New(apperror.CodeMalformedResponse,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("failed to decode %s result", method)))
	}

	return outputs, nil
}

func (p *Provider) callAmount(ctx context.Context, method string, args ...any) (money.Amount, error) {
	outputs, err := p.call(ctx, method, args...)
	if err != nil {
		return money.Zero, err
	}
	if len(outputs) < 1 {
		return money.Zero, malformed(method)
	}

	raw, ok := outputs[0].(*big.Int)
	if !ok || raw == nil {
		return money.Zero, malformed(method)
	}

	amount, err := money.FromBig(raw)
	if err != nil {
		return money.Zero, apperror.Wrap(err, apperror.CodeMalformedResponse, method)
	}
	return amount, nil
}

// Position returns the pool position held for the escrow contract.
func (p *Provider) Position(ctx context.Context) (domain.Position, error) {
	outputs, err := p.call(ctx, "getAavePosition")
	if err != nil {
		return domain.Position{}, err
	}
	if len(outputs) < 3 {
		return domain.Position{}, malformed("getAavePosition")
	}

	principal, ok := bigAmount(outputs[0])
	if !ok {
		return domain.Position{}, malformed("getAavePosition")
	}
	balance, ok := bigAmount(outputs[1])
	if !ok {
		return domain.Position{}, malformed("getAavePosition")
	}
	updated, ok := outputs[2].(*big.Int)
	if !ok || updated == nil {
		return domain.Position{}, malformed("getAavePosition")
	}

	return domain.Position{
		PrincipalSupplied: principal,
		ATokenBalance:     balance,
		LastUpdated:       updated.Int64(),
	}, nil
}

// AccruedYield returns total interest earned by the position.
func (p *Provider) AccruedYield(ctx context.Context) (money.Amount, error) {
	return p.callAmount(ctx, "getAaveYield")
}

// CurrentAPY returns the pool APY as a percentage. The contract
// reports basis points; the value is divided by 100 here. Responses
// are cached briefly since the rate moves slowly.
func (p *Provider) CurrentAPY(ctx context.Context) (float64, error) {
	if apy, ok := p.apyCache.Get(apyCacheKey); ok {
		return apy, nil
	}

	outputs, err := p.call(ctx, "getCurrentAaveApy")
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeAPYUnavailable, "apy query failed")
	}
	if len(outputs) < 1 {
		return 0, malformed("getCurrentAaveApy")
	}

	bps, ok := outputs[0].(*big.Int)
	if !ok || bps == nil {
		return 0, malformed("getCurrentAaveApy")
	}

	apy := float64(bps.Int64()) / 100
	p.apyCache.Set(apyCacheKey, apy)

	return apy, nil
}

// TotalValue returns the total pool-side value held for the contract.
func (p *Provider) TotalValue(ctx context.Context) (money.Amount, error) {
	return p.callAmount(ctx, "getTotalAaveValue")
}

// EstimatedEscrowYield returns the contract's yield estimate for one
// escrow.
func (p *Provider) EstimatedEscrowYield(ctx context.Context, escrowID uint64) (money.Amount, error) {
	return p.callAmount(ctx, "getEstimatedEscrowYield", new(big.Int).SetUint64(escrowID))
}

// Supply deposits funds into the pool on behalf of the escrow
// contract. Phase one of the deposit saga.
func (p *Provider) Supply(ctx context.Context, asset common.Address, amount money.Amount, onBehalfOf common.Address) (common.Hash, error) {
	if p.signer == nil {
		return common.Hash{}, apperror.New(apperror.CodeNoSigner,
			apperror.WithContext("pool supply requires a configured wallet"))
	}

	ctx, span := p.tracer.Start(ctx, "aave.supply",
		trace.WithAttributes(
			attribute.String("asset", asset.Hex()),
			attribute.String("amount", amount.String()),
			attribute.String("on_behalf_of", onBehalfOf.Hex()),
		),
	)
	defer span.End()

	p.metrics.suppliesTotal.Add(ctx, 1)

	opts, err := p.signer.TransactOpts()
	if err != nil {
		span.SetStatus(codes.Error, "signer unavailable")
		return common.Hash{}, err
	}
	opts.Context = ctx

	tx, err := p.pool.Transact(opts, "supply", asset, amount.Big(), onBehalfOf, p.referralCode)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return common.Hash{}, apperror.New(apperror.CodeAaveSupplyFailed,
			apperror.WithCause(err),
			apperror.WithContext("pool supply transaction rejected"))
	}

	span.SetAttributes(attribute.String("tx_hash", tx.Hash().Hex()))
	span.SetStatus(codes.Ok, "submitted")

	p.logger.Info(ctx, "pool supply submitted",
		"asset", asset.Hex(),
		"amount", amount.String(),
		"tx_hash", tx.Hash().Hex(),
	)

	return tx.Hash(), nil
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
