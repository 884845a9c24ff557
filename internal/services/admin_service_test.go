package services

import (
	"context"
	"testing"
	"time"

	"ajo-pools/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshPayoutDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewAdminService(f.repo)

	creator := testutil.CreateUser(t, f.db, "did:privy:creator", "")
	stale := testutil.CreatePool(t, f.db, creator, 3, 0)
	correct := testutil.CreatePool(t, f.db, creator, 3, 0)

	// weekly pool seated at position 1 pays out one week after start
	want := stale.StartDate.AddDate(0, 0, 7)
	require.NoError(t, f.repo.SetNextPayoutDate(ctx, correct.ID, want))

	results, err := svc.RefreshPayoutDates(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := map[string]PayoutDateResult{}
	for _, r := range results {
		byID[r.ID.String()] = r
	}

	updated := byID[stale.ID.String()]
	assert.True(t, updated.Success)
	require.NotNil(t, updated.NewDate)
	assert.True(t, updated.NewDate.Equal(want))

	unchanged := byID[correct.ID.String()]
	assert.True(t, unchanged.Success)
	assert.True(t, unchanged.NoUpdateNeeded)

	stored, err := f.repo.GetPool(ctx, stale.ID)
	require.NoError(t, err)
	assert.True(t, stored.NextPayoutDate.Equal(want))
}

func TestRefreshPayoutDatesUsesNextMemberPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewAdminService(f.repo)

	creator := testutil.CreateUser(t, f.db, "did:privy:creator", "")
	second := testutil.CreateUser(t, f.db, "did:privy:second", "")
	pool := testutil.CreatePool(t, f.db, creator, 3, 0)
	testutil.AddMember(t, f.db, pool, second)
	require.NoError(t, f.repo.UpdatePool(ctx, pool.ID, map[string]interface{}{"next_payout_member_id": second.ID}))

	_, err := svc.RefreshPayoutDates(ctx)
	require.NoError(t, err)

	stored, err := f.repo.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.True(t, stored.NextPayoutDate.Equal(pool.StartDate.Add(14*24*time.Hour)))
}
