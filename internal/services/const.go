package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInsufficientPoints = errors.New("insufficient points")
var ErrCampaignNotFound = errors.New("campaign not found")
var ErrCampaignInactive = errors.New("campaign inactive")
var ErrMissionNotFound = errors.New("mission not found")
var ErrMissionNotCompleted = errors.New("mission not completed")
var ErrInvalidStampID = errors.New("invalid stamp id")
var ErrConcurrencyConflict = errors.New("concurrent update, retry")
var ErrNoPrizes = errors.New("campaign has no drawable prizes")
var ErrInvalidAmount = errors.New("amount must be positive")
var ErrLedgerCorrupt = errors.New("ledger sum does not match balance")

const (
	CONFIG_WELCOME_BONUS_POINTS = "WELCOME_BONUS_POINTS"
	CONFIG_ALL_MISSIONS_BONUS   = "ALL_MISSIONS_BONUS_POINTS"
	CONFIG_DEFAULT_DRAW_COST    = "DEFAULT_DRAW_COST"
	CONFIG_RECENT_WINS_LIMIT    = "RECENT_WINS_LIMIT"

	DEFAULT_WELCOME_BONUS_POINTS = 100
	DEFAULT_ALL_MISSIONS_BONUS   = 50
	DEFAULT_DRAW_COST            = 10
	DEFAULT_RECENT_WINS_LIMIT    = 20
	DEFAULT_HISTORY_PAGE_SIZE    = 50

	// Probabilities are converted to basis points before the chooser is
	// built, so tables that do not sum to exactly 100 still draw
	// proportionally.
	WEIGHT_BASIS_POINTS = 100

	CACHE_TTL_5_SECONDS = 5 * time.Second
	CACHE_TTL_1_MIN     = 1 * time.Minute
	CACHE_TTL_5_MINS    = 5 * time.Minute

	DRAW_RATE_LIMIT_PER_MINUTE  = 60
	EVENT_RATE_LIMIT_PER_MINUTE = 120
)

func LockKeyUserLedger(userID string) string {
	return fmt.Sprintf("lock:user-ledger:%s", userID)
}

// db
func DBKeyUserBalance(userID string) string {
	return fmt.Sprintf("user_balance:%s", userID)
}

func DBKeyCampaign(campaignID string) string {
	return fmt.Sprintf("campaign:%s", strings.ToLower(campaignID))
}

func DBKeyCampaignPrizes(campaignID string) string {
	return fmt.Sprintf("campaign:%s:prizes", strings.ToLower(campaignID))
}

func DBKeyMissionDefinitions() string {
	return "mission_definition:enabled"
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func LimitKeyUserDraw(userID string) string {
	return fmt.Sprintf("limit:draw:%s", userID)
}

func LimitKeyUserEvent(userID string) string {
	return fmt.Sprintf("limit:event:%s", userID)
}
