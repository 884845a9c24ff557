package services

import (
	"context"
	"testing"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/repository"
	"ajo-pools/internal/testutil"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChain struct {
	exists       bool
	existsErr    error
	balance      decimal.Decimal
	balanceErr   error
	tokenBalance decimal.Decimal
	tokenErr     error
	confirmed    map[string]bool
	confirmErr   error
}

func (f *fakeChain) AccountExists(ctx context.Context, address string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeChain) GetSOLBalance(ctx context.Context, walletAddress string) (decimal.Decimal, error) {
	return f.balance, f.balanceErr
}

func (f *fakeChain) GetTokenAccountBalance(ctx context.Context, ownerAddress, mintAddress string) (decimal.Decimal, error) {
	return f.tokenBalance, f.tokenErr
}

func (f *fakeChain) IsSignatureConfirmed(ctx context.Context, signature string) (bool, error) {
	return f.confirmed[signature], f.confirmErr
}

type fixture struct {
	db    *gorm.DB
	repo  *repository.Repository
	users *UserService
	chain *fakeChain
	pools *PoolService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	repo := repository.NewRepository(db)
	users := NewUserService(repo)
	chain := &fakeChain{confirmed: map[string]bool{}}

	return &fixture{
		db:    db,
		repo:  repo,
		users: users,
		chain: chain,
		pools: NewPoolService(repo, users, chain),
	}
}

// signature returns a well-formed base58 transaction signature
func signature(seed byte) string {
	var sig solana.Signature
	for i := range sig {
		sig[i] = seed + byte(i)
	}
	return sig.String()
}

func requireKind(t *testing.T, err error, kind apperrors.Kind, message string) {
	t.Helper()

	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected classified error, got %v", err)
	require.Equal(t, kind, appErr.Kind)
	if message != "" {
		require.Equal(t, message, appErr.Message)
	}
}
