package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DrawRecord is the persisted outcome of one paid draw, written in the
// same transaction as the cost debit.
type DrawRecord struct {
	bun.BaseModel `bun:"table:draw_record"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	CampaignID    string    `bun:"campaign_id" json:"campaign_id"`
	PrizeID       string    `bun:"prize_id" json:"prize_id"`
	IsWinning     bool      `bun:"is_winning" json:"is_winning"`
	Cost          int       `bun:"cost" json:"cost"`
	BalanceAfter  int       `bun:"balance_after" json:"balance_after"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type DrawOutcome struct {
	PrizeID      string `json:"prize_id"`
	PrizeName    string `json:"prize_name"`
	IsWinning    bool   `json:"is_winning"`
	Cost         int    `json:"cost"`
	BalanceAfter int    `json:"new_balance"`
}

// RecentWin is the public ticker entry pushed to redis for winning draws.
type RecentWin struct {
	UserID     string    `json:"user_id" msgpack:"user_id"`
	CampaignID string    `json:"campaign_id" msgpack:"campaign_id"`
	PrizeName  string    `json:"prize_name" msgpack:"prize_name"`
	WonAt      time.Time `json:"won_at" msgpack:"won_at"`
}
