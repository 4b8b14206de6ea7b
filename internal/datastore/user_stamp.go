package datastore

import (
	"context"

	"pointrally/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUserStamp(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserStamp)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserStamp)(nil)).Index("index_user_stamp_user_id_campaign_id_stamp_id").Unique().IfNotExists().Column("user_id", "campaign_id", "stamp_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableStampBonusClaim(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.StampBonusClaim)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertUserStamp acquires a stamp at most once. A duplicate stamp id
// collapses into the existing row and returns false, which is a no-op
// for the caller, not an error.
func InsertUserStamp(ctx context.Context, db bun.IDB, stamp *models.UserStamp) (bool, error) {
	res, err := db.NewInsert().Model(stamp).On("CONFLICT (user_id, campaign_id, stamp_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func CountUserStamps(ctx context.Context, db bun.IDB, userID, campaignID string) (int, error) {
	count, err := db.NewSelect().Model((*models.UserStamp)(nil)).
		Where("user_id = ?", userID).
		Where("campaign_id = ?", campaignID).
		Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func GetUserStamps(ctx context.Context, db bun.IDB, userID, campaignID string) ([]models.UserStamp, error) {
	var stamps []models.UserStamp
	err := db.NewSelect().Model(&stamps).
		Where("user_id = ?", userID).
		Where("campaign_id = ?", campaignID).
		Order("stamp_index ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return stamps, nil
}

// InsertStampBonusClaim is the one-shot completion bonus gate per
// (user, campaign).
func InsertStampBonusClaim(ctx context.Context, db bun.IDB, userID, campaignID string) (bool, error) {
	claim := &models.StampBonusClaim{
		UserID:     userID,
		CampaignID: campaignID,
	}
	res, err := db.NewInsert().Model(claim).On("CONFLICT (user_id, campaign_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}
