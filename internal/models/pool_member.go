package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MemberStatus string

const (
	MemberStatusPending MemberStatus = "pending"
	MemberStatusActive  MemberStatus = "active"
	MemberStatusRemoved MemberStatus = "removed"
)

// PoolMember is the join table of record between pools and users.
// (pool_id, user_id) and (pool_id, position) are both unique.
type PoolMember struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PoolID               uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_pool_members_pool_user;uniqueIndex:idx_pool_members_pool_position" json:"pool_id"`
	UserID               uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_pool_members_pool_user;index" json:"user_id"`
	User                 *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Position             int             `gorm:"not null;uniqueIndex:idx_pool_members_pool_position" json:"position"`
	Status               MemberStatus    `gorm:"size:16;not null;default:active" json:"status"`
	HasReceivedPayout    bool            `gorm:"default:false" json:"has_received_payout"`
	TotalContributed     decimal.Decimal `gorm:"type:decimal(20,9);not null;default:0" json:"total_contributed"`
	LastContributionDate *time.Time      `json:"last_contribution_date"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TableName specifies the table name for PoolMember model
func (PoolMember) TableName() string {
	return "pool_members"
}

func (m *PoolMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
