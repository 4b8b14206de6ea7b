package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

type CampaignType string

const (
	CampaignTypeGacha      CampaignType = "gacha"
	CampaignTypeFukubiki   CampaignType = "fukubiki"
	CampaignTypeScratch    CampaignType = "scratch"
	CampaignTypeRoulette   CampaignType = "roulette"
	CampaignTypeStampRally CampaignType = "stamp_rally"
)

func (t CampaignType) Valid() bool {
	switch t {
	case CampaignTypeGacha, CampaignTypeFukubiki, CampaignTypeScratch, CampaignTypeRoulette, CampaignTypeStampRally:
		return true
	}
	return false
}

// IsDraw reports whether the campaign type is played through the draw
// engine. Stamp rallies are collected, not drawn.
func (t CampaignType) IsDraw() bool {
	return t.Valid() && t != CampaignTypeStampRally
}

type Campaign struct {
	bun.BaseModel `bun:"table:campaign"`
	ID            string          `bun:"id,pk" json:"id"`
	Type          CampaignType    `bun:"type" json:"type"`
	OwnerID       string          `bun:"owner_id" json:"owner_id"`
	Title         string          `bun:"title" json:"title"`
	Settings      json.RawMessage `bun:"settings,type:jsonb" json:"settings"`
	StartsAt      *time.Time      `bun:"starts_at" json:"starts_at"`
	EndsAt        *time.Time      `bun:"ends_at" json:"ends_at"`
	Enabled       bool            `bun:"enabled" json:"-"`
	CreatedAt     time.Time       `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// ActiveAt checks the optional active window. A nil bound is open.
func (c *Campaign) ActiveAt(now time.Time) bool {
	if !c.Enabled {
		return false
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && now.After(*c.EndsAt) {
		return false
	}
	return true
}

type GachaSettings struct {
	CostPerPlay int `json:"cost_per_play"`
}

type StampRallySettings struct {
	TotalStamps     int `json:"total_stamps"`
	PointsPerStamp  int `json:"points_per_stamp"`
	CompletionBonus int `json:"completion_bonus"`
}

var ErrBadCampaignSettings = errors.New("campaign settings do not match campaign type")

// GachaSettings parses the settings union for draw-type campaigns.
// Validation happens here, at the registry boundary, not at draw time.
func (c *Campaign) GachaSettings() (*GachaSettings, error) {
	if !c.Type.IsDraw() {
		return nil, ErrBadCampaignSettings
	}

	var settings GachaSettings
	if len(c.Settings) > 0 {
		if err := json.Unmarshal(c.Settings, &settings); err != nil {
			return nil, err
		}
	}

	if settings.CostPerPlay < 0 {
		return nil, ErrBadCampaignSettings
	}

	return &settings, nil
}

func (c *Campaign) StampRallySettings() (*StampRallySettings, error) {
	if c.Type != CampaignTypeStampRally {
		return nil, ErrBadCampaignSettings
	}

	var settings StampRallySettings
	if len(c.Settings) > 0 {
		if err := json.Unmarshal(c.Settings, &settings); err != nil {
			return nil, err
		}
	}

	if settings.TotalStamps <= 0 || settings.PointsPerStamp < 0 || settings.CompletionBonus < 0 {
		return nil, ErrBadCampaignSettings
	}

	return &settings, nil
}

type Prize struct {
	bun.BaseModel `bun:"table:prize"`
	ID            string    `bun:"id,pk" json:"id"`
	CampaignID    string    `bun:"campaign_id" json:"campaign_id"`
	Name          string    `bun:"name" json:"name"`
	Probability   float64   `bun:"probability" json:"probability"`
	IsWinning     bool      `bun:"is_winning" json:"is_winning"`
	Position      int       `bun:"position" json:"position"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type UserPrize struct {
	bun.BaseModel `bun:"table:user_prize"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	CampaignID    string    `bun:"campaign_id" json:"campaign_id"`
	PrizeID       string    `bun:"prize_id" json:"prize_id"`
	PrizeName     string    `bun:"prize_name" json:"prize_name"`
	AcquiredAt    time.Time `bun:"acquired_at,default:current_timestamp" json:"acquired_at"`
}
