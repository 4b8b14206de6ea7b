package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	MISSION_TYPE_LOGIN     = "login"
	MISSION_TYPE_DRAW_PLAY = "draw_play"
	MISSION_TYPE_QUIZ_PLAY = "quiz_play"
	MISSION_TYPE_PAGE_VIEW = "page_view"
)

type MissionDefinition struct {
	bun.BaseModel `bun:"table:mission_definition"`
	ID            string    `bun:"id,pk" json:"id"`
	Type          string    `bun:"type" json:"type"`
	Title         string    `bun:"title" json:"title"`
	TargetCount   int       `bun:"target_count" json:"target_count"`
	RewardPoints  int       `bun:"reward_points" json:"reward_points"`
	Enabled       bool      `bun:"enabled" json:"-"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// MissionProgress rows are per calendar day in the configured mission
// timezone. Old rows stay around as history; a new day means new rows.
type MissionProgress struct {
	bun.BaseModel `bun:"table:mission_progress"`
	UserID        string    `bun:"user_id,pk" json:"user_id"`
	MissionID     string    `bun:"mission_id,pk" json:"mission_id"`
	Date          string    `bun:"date,pk" json:"date"`
	CurrentCount  int       `bun:"current_count" json:"current_count"`
	RewardClaimed bool      `bun:"reward_claimed" json:"reward_claimed"`
	UpdatedAt     time.Time `bun:"updated_at,default:current_timestamp" json:"updated_at"`
}

// MissionStatus joins today's progress with its static definition.
type MissionStatus struct {
	MissionID     string `json:"mission_id"`
	Type          string `json:"type"`
	Title         string `json:"title"`
	CurrentCount  int    `json:"current_count"`
	TargetCount   int    `json:"target_count"`
	Completed     bool   `json:"completed"`
	RewardClaimed bool   `json:"reward_claimed"`
	RewardPoints  int    `json:"reward_points"`
}

type AllMissionsBonus struct {
	AllCompleted   bool `json:"all_completed"`
	BonusAvailable bool `json:"bonus_available"`
	BonusPoints    int  `json:"bonus_points"`
}

// AllMissionsBonusClaim is the per-day one-shot gate for the all-missions
// bonus, distinct from individual mission claims.
type AllMissionsBonusClaim struct {
	bun.BaseModel `bun:"table:all_missions_bonus_claim"`
	UserID        string    `bun:"user_id,pk" json:"user_id"`
	Date          string    `bun:"date,pk" json:"date"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type ClaimResult struct {
	PointsGranted  int  `json:"points_granted"`
	AlreadyClaimed bool `json:"already_claimed"`
}
