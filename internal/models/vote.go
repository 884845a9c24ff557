package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoteChoice string

const (
	VoteYes     VoteChoice = "yes"
	VoteNo      VoteChoice = "no"
	VoteAbstain VoteChoice = "abstain"
)

// Valid reports whether v is a known vote choice
func (v VoteChoice) Valid() bool {
	return v == VoteYes || v == VoteNo || v == VoteAbstain
}

// Vote is one member's ballot on a proposal
type Vote struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_proposal_user" json:"proposal_id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_proposal_user" json:"user_id"`
	Vote       VoteChoice `gorm:"size:16;not null" json:"vote"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Vote model
func (Vote) TableName() string {
	return "votes"
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// VoteCounts is the tally of a proposal
type VoteCounts struct {
	Yes     int64 `json:"yes"`
	No      int64 `json:"no"`
	Abstain int64 `json:"abstain"`
	Total   int64 `json:"total"`
}
