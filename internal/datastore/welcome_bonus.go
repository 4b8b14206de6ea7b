package datastore

import (
	"context"

	"pointrally/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableWelcomeBonusClaim(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.WelcomeBonusClaim)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertWelcomeBonusClaim inserts the one-shot claim row. The unique
// user_id acts as the grant gate: false means the bonus was already
// claimed and no credit must follow.
func InsertWelcomeBonusClaim(ctx context.Context, db bun.IDB, userID string) (bool, error) {
	claim := &models.WelcomeBonusClaim{UserID: userID}
	res, err := db.NewInsert().Model(claim).On("CONFLICT (user_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func HasWelcomeBonusClaim(ctx context.Context, db bun.IDB, userID string) (bool, error) {
	exists, err := db.NewSelect().Model((*models.WelcomeBonusClaim)(nil)).
		Where("user_id = ?", userID).
		Exists(ctx)
	if err != nil {
		return false, err
	}

	return exists, nil
}
