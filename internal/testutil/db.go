// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"ajo-pools/internal/database"
	"ajo-pools/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
// A single connection keeps every statement on the same in-memory database
// and serialises concurrent transactions.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := database.Options()
	cfg.Logger = logger.Discard

	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given identity subject and wallet
func CreateUser(t testing.TB, db *gorm.DB, privyID, wallet string) *models.User {
	t.Helper()

	user := &models.User{PrivyID: privyID}
	if wallet != "" {
		user.WalletAddress = &wallet
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreatePool inserts a pool owned by creator with the creator seated at
// position 1, then seats `extra` additional generated members.
func CreatePool(t testing.TB, db *gorm.DB, creator *models.User, totalMembers, extra int) *models.Pool {
	t.Helper()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pool := &models.Pool{
		Name:                    "Test Pool",
		Slug:                    "test-pool",
		CreatorID:               creator.ID,
		ContributionAmount:      decimal.NewFromInt(2),
		ContributionToken:       models.NativeTokenSymbol,
		ContributionTokenSymbol: models.NativeTokenSymbol,
		Frequency:               models.FrequencyWeekly,
		TotalMembers:            totalMembers,
		CurrentMembers:          1,
		TotalContributed:        decimal.Zero,
		StartDate:               start,
		NextPayoutDate:          start,
		NextPayoutMemberID:      &creator.ID,
		Status:                  models.PoolStatusActive,
	}
	if err := db.Create(pool).Error; err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	AddMember(t, db, pool, creator)

	for i := 0; i < extra; i++ {
		member := CreateUser(t, db, "did:privy:"+uuid.NewString(), "")
		AddMember(t, db, pool, member)
	}
	return pool
}

// AddMember seats user at the next position and bumps the occupancy counter
// the way the join procedure does. The creator's seat is already counted.
func AddMember(t testing.TB, db *gorm.DB, pool *models.Pool, user *models.User) *models.PoolMember {
	t.Helper()

	var count int64
	db.Model(&models.PoolMember{}).Where("pool_id = ?", pool.ID).Count(&count)

	member := &models.PoolMember{
		PoolID:           pool.ID,
		UserID:           user.ID,
		Position:         int(count) + 1,
		Status:           models.MemberStatusActive,
		TotalContributed: decimal.Zero,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to add member: %v", err)
	}
	if count > 0 {
		if err := db.Model(&models.Pool{}).Where("id = ?", pool.ID).
			Update("current_members", gorm.Expr("current_members + 1")).Error; err != nil {
			t.Fatalf("failed to bump pool occupancy: %v", err)
		}
		pool.CurrentMembers++
	}
	return member
}
