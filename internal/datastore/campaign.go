package datastore

import (
	"context"

	"pointrally/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableCampaign(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Campaign)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Campaign)(nil)).Index("index_campaign_owner_id").IfNotExists().Column("owner_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetCampaign(ctx context.Context, db bun.IDB, campaignID string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := db.NewSelect().Model(&campaign).Where("id = ?", campaignID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &campaign, nil
}

func GetEnabledCampaigns(ctx context.Context, db bun.IDB) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := db.NewSelect().Model(&campaigns).Where("enabled = ?", true).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return campaigns, nil
}

func InsertCampaign(ctx context.Context, db bun.IDB, campaign *models.Campaign) error {
	_, err := db.NewInsert().Model(campaign).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}
