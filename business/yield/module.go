// Package yield implements the yield bounded context: Aave position
// queries, APY, per-escrow estimates and the pool supply adapter.
package yield

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	escrowapp "github.com/fd1az/escrow-desk/business/escrow/app"
	escrowDI "github.com/fd1az/escrow-desk/business/escrow/di"
	"github.com/fd1az/escrow-desk/business/yield/app"
	yieldDI "github.com/fd1az/escrow-desk/business/yield/di"
	"github.com/fd1az/escrow-desk/business/yield/infra/aave"
	"github.com/fd1az/escrow-desk/internal/config"
	"github.com/fd1az/escrow-desk/internal/di"
	"github.com/fd1az/escrow-desk/internal/logger"
	"github.com/fd1az/escrow-desk/internal/monolith"
	"github.com/fd1az/escrow-desk/internal/wallet"
)

// Module implements the yield bounded context.
type Module struct{}

// RegisterServices registers all yield services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register PoolProvider (private - internal dependency)
	di.RegisterToken(c, yieldDI.PoolProvider, func(sr di.ServiceRegistry) app.PoolProvider {
		return newProvider(sr)
	})

	// Register PoolSupplier (public - the escrow deposit saga supplies
	// through it). Same underlying provider instance.
	di.RegisterToken(c, yieldDI.PoolSupplier, func(sr di.ServiceRegistry) escrowapp.PoolSupplier {
		return yieldDI.GetPoolProvider(sr).(escrowapp.PoolSupplier)
	})

	// Register YieldService (public - exposed to escrow module and UI)
	di.RegisterToken(c, yieldDI.YieldService, func(sr di.ServiceRegistry) *app.Service {
		log := sr.Get("logger").(logger.LoggerInterface)
		pool := yieldDI.GetPoolProvider(sr)
		escrows := escrowDI.GetContractClient(sr)

		return app.NewService(pool, escrows, log)
	})

	return nil
}

// Startup initializes the yield module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "yield module started")
	return nil
}

func newProvider(sr di.ServiceRegistry) *aave.Provider {
	cfg := sr.Get("config").(*config.Config)
	log := sr.Get("logger").(logger.LoggerInterface)
	ethClient := sr.Get("ethClient").(*ethclient.Client)
	signer, _ := sr.Get("signer").(wallet.Signer)

	provider, err := aave.NewProvider(
		ethClient,
		cfg.Contract.EscrowAddressHex(),
		cfg.Aave.PoolAddressHex(),
		cfg.Aave.ReferralCode,
		cfg.Yield.APYCacheTTL,
		signer,
		log,
	)
	if err != nil {
		panic("failed to create aave provider: " + err.Error())
	}
	return provider
}
