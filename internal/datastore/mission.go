package datastore

import (
	"context"

	"pointrally/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableMissionDefinition(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.MissionDefinition)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.MissionDefinition)(nil)).Index("index_mission_definition_type").IfNotExists().Column("type").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetEnabledMissionDefinitions(ctx context.Context, db bun.IDB) ([]models.MissionDefinition, error) {
	var definitions []models.MissionDefinition
	err := db.NewSelect().Model(&definitions).Where("enabled = ?", true).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return definitions, nil
}

func GetMissionDefinition(ctx context.Context, db bun.IDB, missionID string) (*models.MissionDefinition, error) {
	var definition models.MissionDefinition
	err := db.NewSelect().Model(&definition).Where("id = ?", missionID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &definition, nil
}

func InsertMissionDefinition(ctx context.Context, db bun.IDB, definition *models.MissionDefinition) error {
	_, err := db.NewInsert().Model(definition).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}
