package datastore

import (
	"context"

	"pointrally/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableDrawRecord(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.DrawRecord)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.DrawRecord)(nil)).Index("index_draw_record_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.DrawRecord)(nil)).Index("index_draw_record_campaign_id").IfNotExists().Column("campaign_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertDrawRecord(ctx context.Context, db bun.IDB, record *models.DrawRecord) error {
	_, err := db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetDrawRecords(ctx context.Context, db bun.IDB, userID string, limit, offset int) ([]models.DrawRecord, error) {
	var records []models.DrawRecord
	err := db.NewSelect().Model(&records).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}
