package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"pointrally/internal/datastore"
	"pointrally/internal/models"
	"pointrally/internal/pkg/caching"
	"pointrally/internal/pkg/locking"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// missCache never stores anything, so every read goes to the database.
type missCache struct{}

func (missCache) Get(ctx context.Context, key string, target any) error {
	return caching.ErrMiss
}

func (missCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (missCache) Delete(ctx context.Context, key string) error {
	return nil
}

func newTestContainer(t *testing.T) *do.Injector {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	ctx := context.Background()
	creates := []func(context.Context, *bun.DB) error{
		datastore.CreateTablePointBalance,
		datastore.CreateTablePointTransaction,
		datastore.CreateTableCampaign,
		datastore.CreateTablePrize,
		datastore.CreateTableUserPrize,
		datastore.CreateTableDrawRecord,
		datastore.CreateTableMissionDefinition,
		datastore.CreateTableMissionProgress,
		datastore.CreateTableAllMissionsBonusClaim,
		datastore.CreateTableWelcomeBonusClaim,
		datastore.CreateTableUserStamp,
		datastore.CreateTableStampBonusClaim,
		datastore.CreateTableConfig,
	}
	for _, create := range creates {
		if err := create(ctx, db); err != nil {
			t.Fatal(err)
		}
	}

	injector := do.New()
	t.Cleanup(func() {
		//nolint:errcheck
		injector.Shutdown()
	})

	do.ProvideValue(injector, db)
	do.ProvideNamedValue(injector, "db-readonly", db)

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		return missCache{}, nil
	})

	do.Provide(injector, func(i *do.Injector) (caching.ReadOnlyCache, error) {
		return missCache{}, nil
	})

	do.Provide(injector, func(i *do.Injector) (locking.Locker, error) {
		locker := locking.NewLocalLocker()
		locker.Tries = 500
		locker.RetryDelay = 2 * time.Millisecond
		return locker, nil
	})

	// side-effect paths tolerate an unreachable instance
	do.ProvideNamed(injector, "redis-db", func(i *do.Injector) (redis.UniversalClient, error) {
		return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceConfig, error) {
		return NewServiceConfig(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceLedger, error) {
		return NewServiceLedger(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceCampaign, error) {
		return NewServiceCampaign(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceDraw, error) {
		return NewServiceDraw(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceMission, error) {
		return NewServiceMission(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceBonus, error) {
		return NewServiceBonus(i)
	})

	return injector
}

func seedCampaign(t *testing.T, container *do.Injector, campaign *models.Campaign, prizes []*models.Prize) {
	t.Helper()

	db := do.MustInvoke[*bun.DB](container)
	ctx := context.Background()

	if err := datastore.InsertCampaign(ctx, db, campaign); err != nil {
		t.Fatal(err)
	}

	if len(prizes) > 0 {
		if err := datastore.InsertPrizes(ctx, db, prizes); err != nil {
			t.Fatal(err)
		}
	}
}

func seedGacha(t *testing.T, container *do.Injector, id string, cost int, prizes []*models.Prize) {
	t.Helper()

	settings, err := json.Marshal(models.GachaSettings{CostPerPlay: cost})
	if err != nil {
		t.Fatal(err)
	}

	seedCampaign(t, container, &models.Campaign{
		ID:       id,
		Type:     models.CampaignTypeGacha,
		OwnerID:  "owner-1",
		Title:    "Test Gacha",
		Settings: settings,
		Enabled:  true,
	}, prizes)
}

func seedMission(t *testing.T, container *do.Injector, definition *models.MissionDefinition) {
	t.Helper()

	db := do.MustInvoke[*bun.DB](container)
	if err := datastore.InsertMissionDefinition(context.Background(), db, definition); err != nil {
		t.Fatal(err)
	}
}

func seedConfig(t *testing.T, container *do.Injector, key, value string) {
	t.Helper()

	db := do.MustInvoke[*bun.DB](container)
	if err := datastore.UpsertConfig(context.Background(), db, &models.Config{Key: key, Value: value}); err != nil {
		t.Fatal(err)
	}
}

func mustBalance(t *testing.T, container *do.Injector, userID string) *models.PointBalance {
	t.Helper()

	db := do.MustInvoke[*bun.DB](container)
	balance, err := datastore.GetPointBalance(context.Background(), db, userID)
	if err != nil {
		t.Fatal(err)
	}

	return balance
}
