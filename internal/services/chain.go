package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChainReader is the read-only view of the Solana network the services need
type ChainReader interface {
	AccountExists(ctx context.Context, address string) (bool, error)
	GetSOLBalance(ctx context.Context, walletAddress string) (decimal.Decimal, error)
	GetTokenAccountBalance(ctx context.Context, ownerAddress, mintAddress string) (decimal.Decimal, error)
	IsSignatureConfirmed(ctx context.Context, signature string) (bool, error)
}
