package datastore

import (
	"context"
	"database/sql"

	"pointrally/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePointBalance(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PointBalance)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// GetPointBalance returns the balance row, or a zero-valued row when the
// user has no ledger activity yet. Absence is not an error.
func GetPointBalance(ctx context.Context, db bun.IDB, userID string) (*models.PointBalance, error) {
	var balance models.PointBalance
	err := db.NewSelect().Model(&balance).Where("user_id = ?", userID).Scan(ctx)
	if err == sql.ErrNoRows {
		return &models.PointBalance{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}

	return &balance, nil
}

// CreditPointBalance upserts the balance row, adding the amount to both
// the current and lifetime-earned counters.
func CreditPointBalance(ctx context.Context, db bun.IDB, userID string, amount int) error {
	balance := &models.PointBalance{
		UserID:         userID,
		CurrentPoints:  amount,
		LifetimeEarned: amount,
	}
	_, err := db.NewInsert().Model(balance).
		On("CONFLICT (user_id) DO UPDATE").
		Set("current_points = point_balance.current_points + EXCLUDED.current_points").
		Set("lifetime_earned = point_balance.lifetime_earned + EXCLUDED.lifetime_earned").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// DebitPointBalance decrements the balance only when it can cover the
// amount. Returns false without touching the row otherwise. The
// sufficiency check and the write are a single statement so two
// concurrent debits can never both pass against a stale balance.
func DebitPointBalance(ctx context.Context, db bun.IDB, userID string, amount int) (bool, error) {
	res, err := db.NewUpdate().Model((*models.PointBalance)(nil)).
		Set("current_points = current_points - ?", amount).
		Set("lifetime_spent = lifetime_spent + ?", amount).
		Where("user_id = ?", userID).
		Where("current_points >= ?", amount).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}
