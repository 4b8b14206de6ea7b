package datastore

import (
	"context"

	"pointrally/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUserPrize(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserPrize)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserPrize)(nil)).Index("index_user_prize_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserPrize)(nil)).Index("index_user_prize_user_id_campaign_id").IfNotExists().Column("user_id", "campaign_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertUserPrize(ctx context.Context, db bun.IDB, userPrize *models.UserPrize) error {
	_, err := db.NewInsert().Model(userPrize).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetUserPrizes(ctx context.Context, db bun.IDB, userID string, campaignID string) ([]models.UserPrize, error) {
	var userPrizes []models.UserPrize
	query := db.NewSelect().Model(&userPrizes).Where("user_id = ?", userID)
	if campaignID != "" {
		query = query.Where("campaign_id = ?", campaignID)
	}

	err := query.Order("acquired_at DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return userPrizes, nil
}

func CountUserPrizes(ctx context.Context, db bun.IDB, userID string, campaignID string) (int, error) {
	count, err := db.NewSelect().Model((*models.UserPrize)(nil)).
		Where("user_id = ?", userID).
		Where("campaign_id = ?", campaignID).
		Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}
