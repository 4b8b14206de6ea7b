package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	REASON_DRAW_COST        = "draw_cost"
	REASON_DRAW_REFUND      = "draw_refund"
	REASON_MISSION_REWARD   = "mission_reward"
	REASON_WELCOME_BONUS    = "welcome_bonus"
	REASON_STAMP_BONUS      = "stamp_bonus"
	REASON_ALL_MISSIONS     = "all_missions_bonus"
	REASON_ADMIN_ADJUSTMENT = "admin_adjustment"
)

// PointBalance is the derived balance row per user. It is only ever
// written through ledger transactions, never directly.
type PointBalance struct {
	bun.BaseModel  `bun:"table:point_balance"`
	UserID         string    `bun:"user_id,pk" json:"user_id"`
	CurrentPoints  int       `bun:"current_points" json:"current_points"`
	LifetimeEarned int       `bun:"lifetime_earned" json:"lifetime_earned"`
	LifetimeSpent  int       `bun:"lifetime_spent" json:"lifetime_spent"`
	UpdatedAt      time.Time `bun:"updated_at,default:current_timestamp" json:"updated_at"`
}

// PointTransaction is append-only. For any user the sum of deltas must
// equal the balance row at all times.
type PointTransaction struct {
	bun.BaseModel `bun:"table:point_transaction"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	Delta         int       `bun:"delta" json:"delta"`
	Reason        string    `bun:"reason" json:"reason"`
	RefID         string    `bun:"ref_id" json:"ref_id"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
