package models

import (
	"time"

	"github.com/uptrace/bun"
)

// WelcomeBonusClaim existence implies the bonus was already granted.
// The unique user_id is the idempotency gate for the credit.
type WelcomeBonusClaim struct {
	bun.BaseModel `bun:"table:welcome_bonus_claim"`
	UserID        string    `bun:"user_id,pk" json:"user_id"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type UserStamp struct {
	bun.BaseModel `bun:"table:user_stamp"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	CampaignID    string    `bun:"campaign_id" json:"campaign_id"`
	StampID       string    `bun:"stamp_id" json:"stamp_id"`
	StampIndex    int       `bun:"stamp_index" json:"stamp_index"`
	AcquiredAt    time.Time `bun:"acquired_at,default:current_timestamp" json:"acquired_at"`
}

// StampBonusClaim is the one-shot gate for a rally completion bonus,
// analogous to the welcome bonus gate.
type StampBonusClaim struct {
	bun.BaseModel `bun:"table:stamp_bonus_claim"`
	UserID        string    `bun:"user_id,pk" json:"user_id"`
	CampaignID    string    `bun:"campaign_id,pk" json:"campaign_id"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type WelcomeBonusResult struct {
	PointsGranted  int    `json:"points_granted"`
	AlreadyClaimed bool   `json:"already_claimed"`
	Message        string `json:"message"`
}

type StampResult struct {
	AlreadyAcquired bool `json:"already_acquired"`
	PointsGranted   int  `json:"points_granted"`
	BonusGranted    int  `json:"bonus_granted"`
	StampCount      int  `json:"stamp_count"`
	Completed       bool `json:"completed"`
	BalanceAfter    int  `json:"new_balance"`
}
