package services

import (
	"context"
	"database/sql"
	"errors"

	"pointrally/internal/datastore"
	"pointrally/internal/models"
	"pointrally/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ServiceCampaign is the read-only registry view of campaigns and their
// prize tables. Definitions are authored elsewhere; this engine only
// resolves and validates them.
type ServiceCampaign struct {
	container          *do.Injector
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceCampaign(container *do.Injector) (*ServiceCampaign, error) {
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

	return &ServiceCampaign{container, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServiceCampaign) GetCampaign(ctx context.Context, campaignID string) (*models.Campaign, error) {
	callback := func() (*models.Campaign, error) {
		return datastore.GetCampaign(ctx, service.readonlyPostgresDB, campaignID)
	}

	campaign, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyCampaign(campaignID), CACHE_TTL_5_MINS, callback)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}

	return campaign, nil
}

func (service *ServiceCampaign) GetPrizes(ctx context.Context, campaignID string) ([]models.Prize, error) {
	callback := func() ([]models.Prize, error) {
		return datastore.GetPrizesByCampaign(ctx, service.readonlyPostgresDB, campaignID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyCampaignPrizes(campaignID), CACHE_TTL_5_MINS, callback)
}
