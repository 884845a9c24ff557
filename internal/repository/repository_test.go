package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"ajo-pools/internal/models"
	"ajo-pools/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePoolSeatsCreator(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, "did:privy:creator", "CreatorWallet1111")
	pool := &models.Pool{
		Name:                    "Market Women",
		CreatorID:               creator.ID,
		ContributionAmount:      decimal.NewFromInt(1),
		ContributionToken:       models.NativeTokenSymbol,
		ContributionTokenSymbol: models.NativeTokenSymbol,
		Frequency:               models.FrequencyMonthly,
		TotalMembers:            4,
		StartDate:               time.Now(),
		Status:                  models.PoolStatusPending,
	}

	member, err := repo.CreatePool(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, 1, member.Position)
	assert.Equal(t, creator.ID, member.UserID)

	stored, err := repo.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentMembers)

	count, err := repo.CountMembers(ctx, pool.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestJoinPoolAssignsNextPosition(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, "did:privy:creator", "")
	pool := testutil.CreatePool(t, db, creator, 3, 0)
	joiner := testutil.CreateUser(t, db, "did:privy:joiner", "")

	member, err := repo.JoinPool(ctx, pool.ID, joiner.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, member.Position)
	assert.Equal(t, models.MemberStatusActive, member.Status)

	stored, err := repo.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CurrentMembers)
}

func TestJoinPoolRejectsFullPool(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, "did:privy:creator", "")
	pool := testutil.CreatePool(t, db, creator, 2, 1)
	joiner := testutil.CreateUser(t, db, "did:privy:joiner", "")

	_, err := repo.JoinPool(ctx, pool.ID, joiner.ID, 3)
	assert.ErrorIs(t, err, ErrPoolFull)

	count, err := repo.CountMembers(ctx, pool.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestJoinPoolRejectsExistingMemberAndRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, "did:privy:creator", "")
	pool := testutil.CreatePool(t, db, creator, 3, 0)

	_, err := repo.JoinPool(ctx, pool.ID, creator.ID, 2)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	stored, err := repo.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentMembers, "occupancy increment must roll back")
}

func TestJoinPoolStalePosition(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, "did:privy:creator", "")
	pool := testutil.CreatePool(t, db, creator, 5, 1)
	joiner := testutil.CreateUser(t, db, "did:privy:joiner", "")

	_, err := repo.JoinPool(ctx, pool.ID, joiner.ID, 2)
	assert.ErrorIs(t, err, ErrPositionTaken)
}

func TestJoinPoolConcurrentJoinsKeepInvariant(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	const capacity = 4
	creator := testutil.CreateUser(t, db, "did:privy:creator", "")
	pool := testutil.CreatePool(t, db, creator, capacity, 0)

	joiners := make([]*models.User, 10)
	for i := range joiners {
		joiners[i] = testutil.CreateUser(t, db, "did:privy:"+uuid.NewString(), "")
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, user := range joiners {
		wg.Add(1)
		go func(user *models.User) {
			defer wg.Done()
			for attempt := 0; attempt < 3; attempt++ {
				current, err := repo.GetPool(ctx, pool.ID)
				if err != nil {
					return
				}
				_, err = repo.JoinPool(ctx, pool.ID, user.ID, current.CurrentMembers+1)
				if err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
					return
				}
				if err != ErrPositionTaken {
					return
				}
			}
		}(user)
	}
	wg.Wait()

	stored, err := repo.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	count, err := repo.CountMembers(ctx, pool.ID)
	require.NoError(t, err)

	assert.LessOrEqual(t, successes, capacity-1)
	assert.EqualValues(t, stored.CurrentMembers, count)
	assert.LessOrEqual(t, stored.CurrentMembers, capacity)

	members, err := repo.ListMembers(ctx, pool.ID)
	require.NoError(t, err)
	for i, member := range members {
		assert.Equal(t, i+1, member.Position)
	}
}

func TestGetMembershipReturnsNilForNonMember(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, "did:privy:creator", "")
	pool := testutil.CreatePool(t, db, creator, 3, 0)
	stranger := testutil.CreateUser(t, db, "did:privy:stranger", "")

	member, err := repo.GetMembership(ctx, pool.ID, stranger.ID)
	require.NoError(t, err)
	assert.Nil(t, member)

	member, err = repo.GetMembership(ctx, pool.ID, creator.ID)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, 1, member.Position)
}

func TestListPoolsForMember(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "did:privy:alice", "")
	bob := testutil.CreateUser(t, db, "did:privy:bob", "")
	first := testutil.CreatePool(t, db, alice, 3, 0)
	testutil.CreatePool(t, db, bob, 3, 0)
	testutil.AddMember(t, db, first, bob)

	pools, err := repo.ListPoolsForMember(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, first.ID, pools[0].ID)

	pools, err = repo.ListPoolsForMember(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, pools, 2)
}

func TestLinkWalletOnlyOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "did:privy:user", "")

	linked, err := repo.LinkWallet(ctx, user.ID, "FirstWallet")
	require.NoError(t, err)
	assert.True(t, linked)

	linked, err = repo.LinkWallet(ctx, user.ID, "SecondWallet")
	require.NoError(t, err)
	assert.False(t, linked)

	stored, err := repo.GetUserByWallet(ctx, "FirstWallet")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestUpsertVoteReplacesBallot(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, "did:privy:creator", "")
	pool := testutil.CreatePool(t, db, creator, 3, 1)
	proposal := &models.Proposal{
		PoolID:      pool.ID,
		ProposerID:  creator.ID,
		Title:       "Extend",
		Description: "One more round",
		Type:        models.ProposalTypeExtendPool,
		Status:      models.ProposalStatusActive,
		EndsAt:      time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, repo.CreateProposal(ctx, proposal))

	require.NoError(t, repo.UpsertVote(ctx, &models.Vote{ProposalID: proposal.ID, UserID: creator.ID, Vote: models.VoteYes}))
	require.NoError(t, repo.UpsertVote(ctx, &models.Vote{ProposalID: proposal.ID, UserID: creator.ID, Vote: models.VoteNo}))

	counts, err := repo.CountVotes(ctx, proposal.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, counts.Yes)
	assert.EqualValues(t, 1, counts.No)
	assert.EqualValues(t, 1, counts.Total)
}

func TestRecordContributionUpdatesTotals(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, "did:privy:creator", "")
	pool := testutil.CreatePool(t, db, creator, 3, 0)

	contribution := &models.Contribution{
		PoolID:               pool.ID,
		UserID:               creator.ID,
		Amount:               decimal.NewFromInt(2),
		Token:                models.NativeTokenSymbol,
		TokenSymbol:          models.NativeTokenSymbol,
		TransactionSignature: "sig-1",
		Status:               models.TransferStatusConfirmed,
		CreatedAt:            time.Now(),
	}
	require.NoError(t, repo.RecordContribution(ctx, contribution, nil))

	duplicate := *contribution
	duplicate.ID = uuid.Nil
	assert.ErrorIs(t, repo.RecordContribution(ctx, &duplicate, nil), ErrDuplicateSignature)

	stored, err := repo.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalContributed.Equal(decimal.NewFromInt(2)))

	member, err := repo.GetMembership(ctx, pool.ID, creator.ID)
	require.NoError(t, err)
	assert.True(t, member.TotalContributed.Equal(decimal.NewFromInt(2)))
	assert.NotNil(t, member.LastContributionDate)
}

func TestRecordContributionWithPenalty(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, "did:privy:creator", "")
	pool := testutil.CreatePool(t, db, creator, 3, 0)

	penaltyAmount := decimal.RequireFromString("0.04")
	newContribution := func(sig string) *models.Contribution {
		return &models.Contribution{
			PoolID:               pool.ID,
			UserID:               creator.ID,
			Amount:               decimal.NewFromInt(2),
			Token:                models.NativeTokenSymbol,
			TokenSymbol:          models.NativeTokenSymbol,
			TransactionSignature: sig,
			Status:               models.TransferStatusConfirmed,
			IsLate:               true,
			PenaltyAmount:        &penaltyAmount,
			CreatedAt:            time.Now(),
		}
	}
	newPenalty := func() *models.Penalty {
		return &models.Penalty{
			PoolID:      pool.ID,
			UserID:      creator.ID,
			Amount:      penaltyAmount,
			Token:       models.NativeTokenSymbol,
			TokenSymbol: models.NativeTokenSymbol,
			Reason:      models.PenaltyReasonLateContribution,
			Status:      models.PenaltyStatusPending,
		}
	}

	require.NoError(t, repo.RecordContribution(ctx, newContribution("sig-late"), newPenalty()))

	// a duplicate signature rolls back without leaving a second penalty
	assert.ErrorIs(t, repo.RecordContribution(ctx, newContribution("sig-late"), newPenalty()), ErrDuplicateSignature)

	penalties, err := repo.ListPenalties(ctx, pool.ID, creator.ID)
	require.NoError(t, err)
	require.Len(t, penalties, 1)
	assert.True(t, penalties[0].Amount.Equal(penaltyAmount))
	assert.Equal(t, models.PenaltyReasonLateContribution, penalties[0].Reason)
	assert.Equal(t, models.PenaltyStatusPending, penalties[0].Status)

	contributions, err := repo.ListContributions(ctx, pool.ID, creator.ID)
	require.NoError(t, err)
	require.Len(t, contributions, 1)
	require.NotNil(t, contributions[0].PenaltyAmount)
	assert.True(t, contributions[0].PenaltyAmount.Equal(penaltyAmount))
}

func TestProcessPayoutAdvancesRotation(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, "did:privy:creator", "")
	pool := testutil.CreatePool(t, db, creator, 2, 1)
	members, err := repo.ListMembers(ctx, pool.ID)
	require.NoError(t, err)
	second := members[1].UserID

	nextDate := pool.NextPayoutDate.AddDate(0, 0, 7)
	payout := &models.Payout{
		PoolID:               pool.ID,
		RecipientID:          creator.ID,
		Amount:               decimal.NewFromInt(4),
		Token:                models.NativeTokenSymbol,
		TokenSymbol:          models.NativeTokenSymbol,
		TransactionSignature: "payout-1",
		Status:               models.TransferStatusConfirmed,
		PayoutDate:           time.Now(),
	}
	require.NoError(t, repo.ProcessPayout(ctx, payout, PayoutAdvance{
		NextMemberID:   &second,
		NextPayoutDate: nextDate,
		Status:         models.PoolStatusActive,
	}))

	stored, err := repo.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.NextPayoutMemberID)
	assert.Equal(t, second, *stored.NextPayoutMemberID)

	paid, err := repo.GetMembership(ctx, pool.ID, creator.ID)
	require.NoError(t, err)
	assert.True(t, paid.HasReceivedPayout)

	replay := *payout
	replay.ID = uuid.Nil
	replay.TransactionSignature = "payout-2"
	err = repo.ProcessPayout(ctx, &replay, PayoutAdvance{Status: models.PoolStatusActive})
	assert.ErrorIs(t, err, ErrPayoutOutdated)
}
