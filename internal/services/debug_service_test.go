package services

import (
	"context"
	"testing"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckWallet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewDebugService(f.users, f.repo)

	alice := testutil.CreateUser(t, f.db, "did:privy:alice", "AliceWallet")
	bob := testutil.CreateUser(t, f.db, "did:privy:bob", "")
	own := testutil.CreatePool(t, f.db, alice, 3, 0)
	other := testutil.CreatePool(t, f.db, bob, 3, 0)
	testutil.AddMember(t, f.db, other, alice)

	report, err := svc.CheckWallet(ctx, "AliceWallet")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, report.User.ID)
	assert.Len(t, report.Memberships, 2)
	require.Len(t, report.CreatedPools, 1)
	assert.Equal(t, own.ID, report.CreatedPools[0].ID)
	assert.Len(t, report.PoolDetails, 2)

	_, err = svc.CheckWallet(ctx, "GhostWallet")
	requireKind(t, err, apperrors.KindNotFound, "User not found")
}
