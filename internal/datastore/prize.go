package datastore

import (
	"context"

	"pointrally/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePrize(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Prize)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Prize)(nil)).Index("index_prize_campaign_id").IfNotExists().Column("campaign_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// GetPrizesByCampaign returns the prize table in insertion order so that
// weighted selection is stable for a given random draw.
func GetPrizesByCampaign(ctx context.Context, db bun.IDB, campaignID string) ([]models.Prize, error) {
	var prizes []models.Prize
	err := db.NewSelect().Model(&prizes).
		Where("campaign_id = ?", campaignID).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return prizes, nil
}

func InsertPrizes(ctx context.Context, db bun.IDB, prizes []*models.Prize) error {
	_, err := db.NewInsert().Model(&prizes).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}
