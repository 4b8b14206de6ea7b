package redis_store

import (
	"context"
	"fmt"
	"strings"

	"pointrally/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyRecentWins(campaignID string) string {
	return fmt.Sprintf("campaign:%s:recent_wins", strings.ToLower(campaignID))
}

// PushRecentWin prepends a winning draw to the campaign ticker and trims
// the list to the configured cap. Purely cosmetic state, so it lives in
// redis rather than the ledger database.
func PushRecentWin(ctx context.Context, cmd redis.Cmdable, win *models.RecentWin, limit int) error {
	payload, err := msgpack.Marshal(win)
	if err != nil {
		return err
	}

	key := dbKeyRecentWins(win.CampaignID)
	if err := cmd.LPush(ctx, key, payload).Err(); err != nil {
		return err
	}

	return cmd.LTrim(ctx, key, 0, int64(limit-1)).Err()
}

func GetRecentWins(ctx context.Context, cmd redis.Cmdable, campaignID string, limit int) ([]models.RecentWin, error) {
	raw, err := cmd.LRange(ctx, dbKeyRecentWins(campaignID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	wins := make([]models.RecentWin, 0, len(raw))
	for _, item := range raw {
		var win models.RecentWin
		if err := msgpack.Unmarshal([]byte(item), &win); err != nil {
			return nil, err
		}
		wins = append(wins, win)
	}

	return wins, nil
}
