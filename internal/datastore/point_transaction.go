package datastore

import (
	"context"

	"pointrally/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePointTransaction(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PointTransaction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PointTransaction)(nil)).Index("index_point_transaction_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PointTransaction)(nil)).Index("index_point_transaction_created_at").IfNotExists().Column("created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertPointTransaction(ctx context.Context, db bun.IDB, transaction *models.PointTransaction) error {
	_, err := db.NewInsert().Model(transaction).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetPointTransactions(ctx context.Context, db bun.IDB, userID string, limit, offset int) ([]models.PointTransaction, error) {
	var transactions []models.PointTransaction
	err := db.NewSelect().Model(&transactions).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// SumPointDeltas recomputes a user's balance from the append-only log.
// Used to verify the ledger invariant during reconciliation.
func SumPointDeltas(ctx context.Context, db bun.IDB, userID string) (int, error) {
	var total int
	err := db.NewSelect().
		ColumnExpr("COALESCE(SUM(delta), 0)").
		TableExpr("point_transaction").
		Where("user_id = ?", userID).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}
