package services

import (
	"context"
	"errors"
	"log"

	"pointrally/internal/datastore"
	"pointrally/internal/models"
	"pointrally/internal/pkg/caching"
	"pointrally/internal/pkg/locking"

	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ServiceLedger is the single authoritative mutation path for point
// balances. Every change appends a PointTransaction and updates the
// derived balance row in one database transaction; there is no
// alternate update path.
type ServiceLedger struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	locker             locking.Locker
}

func NewServiceLedger(container *do.Injector) (*ServiceLedger, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	locker, err := do.Invoke[locking.Locker](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLedger{container, postgresDB, readonlyPostgresDB, cache, readonlyCache, locker}, nil
}

// GetBalance never fails on an unknown user; it reports a zero balance.
func (service *ServiceLedger) GetBalance(ctx context.Context, userID string) (*models.PointBalance, error) {
	callback := func() (*models.PointBalance, error) {
		return datastore.GetPointBalance(ctx, service.readonlyPostgresDB, userID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserBalance(userID), CACHE_TTL_5_SECONDS, callback)
}

func (service *ServiceLedger) GetHistory(ctx context.Context, userID string, limit, offset int) ([]models.PointTransaction, error) {
	if limit <= 0 || limit > DEFAULT_HISTORY_PAGE_SIZE {
		limit = DEFAULT_HISTORY_PAGE_SIZE
	}
	if offset < 0 {
		offset = 0
	}

	return datastore.GetPointTransactions(ctx, service.readonlyPostgresDB, userID, limit, offset)
}

// CreditTx appends a positive-delta transaction on the given handle.
// Callers composing larger operations pass their bun.Tx so the credit
// commits or rolls back with the rest of the work.
func (service *ServiceLedger) CreditTx(ctx context.Context, db bun.IDB, userID string, amount int, reason, refID string) (*models.PointTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	transaction := &models.PointTransaction{
		ID:     uuid.NewString(),
		UserID: userID,
		Delta:  amount,
		Reason: reason,
		RefID:  refID,
	}
	if err := datastore.InsertPointTransaction(ctx, db, transaction); err != nil {
		return nil, err
	}

	if err := datastore.CreditPointBalance(ctx, db, userID, amount); err != nil {
		return nil, err
	}

	return transaction, nil
}

// DebitTx appends a negative-delta transaction only when the balance
// covers the amount, otherwise ErrInsufficientPoints and no rows.
func (service *ServiceLedger) DebitTx(ctx context.Context, db bun.IDB, userID string, amount int, reason, refID string) (*models.PointTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	ok, err := datastore.DebitPointBalance(ctx, db, userID, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientPoints
	}

	transaction := &models.PointTransaction{
		ID:     uuid.NewString(),
		UserID: userID,
		Delta:  -amount,
		Reason: reason,
		RefID:  refID,
	}
	if err := datastore.InsertPointTransaction(ctx, db, transaction); err != nil {
		return nil, err
	}

	return transaction, nil
}

func (service *ServiceLedger) Credit(ctx context.Context, userID string, amount int, reason, refID string) (*models.PointTransaction, error) {
	unlock, err := service.LockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var transaction *models.PointTransaction
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		transaction, err = service.CreditTx(ctx, tx, userID, amount, reason, refID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.ClearBalanceCache(ctx, userID)
	return transaction, nil
}

func (service *ServiceLedger) Debit(ctx context.Context, userID string, amount int, reason, refID string) (*models.PointTransaction, error) {
	unlock, err := service.LockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var transaction *models.PointTransaction
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		transaction, err = service.DebitTx(ctx, tx, userID, amount, reason, refID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.ClearBalanceCache(ctx, userID)
	return transaction, nil
}

// LockUser serializes ledger mutations for one user. Other services
// hold this lock around their own read-check-write sequences.
func (service *ServiceLedger) LockUser(ctx context.Context, userID string) (func(), error) {
	unlock, err := service.locker.Acquire(ctx, LockKeyUserLedger(userID))
	if err != nil {
		if errors.Is(err, locking.ErrNotAcquired) {
			return nil, ErrConcurrencyConflict
		}
		return nil, err
	}

	return unlock, nil
}

// VerifyUser recomputes the balance from the transaction log. A
// mismatch is not locally recoverable and is surfaced for out-of-band
// reconciliation.
func (service *ServiceLedger) VerifyUser(ctx context.Context, userID string) error {
	sum, err := datastore.SumPointDeltas(ctx, service.postgresDB, userID)
	if err != nil {
		return err
	}

	balance, err := datastore.GetPointBalance(ctx, service.postgresDB, userID)
	if err != nil {
		return err
	}

	if sum != balance.CurrentPoints {
		return ErrLedgerCorrupt
	}

	return nil
}

func (service *ServiceLedger) ClearBalanceCache(ctx context.Context, userID string) {
	if err := service.cache.Delete(ctx, DBKeyUserBalance(userID)); err != nil {
		log.Println(err)
	}
}
