package blockchain

import (
	"context"
	"testing"
	"time"

	"ajo-pools/internal/config"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRPCURL(t *testing.T) {
	tests := []struct {
		cfg  config.SolanaConfig
		want string
	}{
		{config.SolanaConfig{Network: "devnet"}, rpc.DevNet_RPC},
		{config.SolanaConfig{Network: "mainnet-beta"}, rpc.MainNetBeta_RPC},
		{config.SolanaConfig{Network: "unknown"}, rpc.DevNet_RPC},
		{config.SolanaConfig{Network: "devnet", RPCURL: "http://rpc.internal:8899"}, "http://rpc.internal:8899"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RPCURL(tt.cfg))
	}
}

func TestLamportsToSOL(t *testing.T) {
	assert.True(t, LamportsToSOL(1_500_000_000).Equal(decimal.RequireFromString("1.5")))
	assert.True(t, LamportsToSOL(0).IsZero())
}

func TestValidateAddress(t *testing.T) {
	assert.True(t, ValidateAddress("11111111111111111111111111111111"))
	assert.False(t, ValidateAddress("not-an-address"))
}

func TestMalformedAddressesFailBeforeRPC(t *testing.T) {
	client := NewSolanaClient(config.SolanaConfig{RPCURL: "http://127.0.0.1:1", RPCTimeout: time.Second})
	ctx := context.Background()

	_, err := client.AccountExists(ctx, "bad address")
	assert.Error(t, err)

	_, err = client.GetSOLBalance(ctx, "bad address")
	assert.Error(t, err)

	_, err = client.IsSignatureConfirmed(ctx, "bad signature")
	assert.Error(t, err)
}
