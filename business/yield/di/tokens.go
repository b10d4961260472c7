// Package di contains dependency injection tokens for the yield context.
package di

import (
	escrowapp "github.com/fd1az/escrow-desk/business/escrow/app"
	"github.com/fd1az/escrow-desk/business/yield/app"
	"github.com/fd1az/escrow-desk/internal/di"
)

// Public service tokens - exposed to other modules
var (
	YieldService = di.NewToken[*app.Service]("yield.Service")
	PoolSupplier = di.NewToken[escrowapp.PoolSupplier]("yield.PoolSupplier")
)

// Private dependency tokens - internal to yield module
var (
	PoolProvider = di.NewToken[app.PoolProvider]("yield:poolProvider")
)

// Helper functions for type-safe access
func GetYieldService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, YieldService)
}

func GetPoolSupplier(c di.ServiceRegistry) escrowapp.PoolSupplier {
	return di.GetToken(c, PoolSupplier)
}

func GetPoolProvider(c di.ServiceRegistry) app.PoolProvider {
	return di.GetToken(c, PoolProvider)
}
