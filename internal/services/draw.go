package services

import (
	"context"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"pointrally/internal/datastore"
	"pointrally/internal/datastore/redis_store"
	"pointrally/internal/models"

	"github.com/google/uuid"
	"github.com/mroth/weightedrand/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ServiceDraw performs the atomic "pay cost, select prize" operation.
// The debit, the prize grant and the draw record share one database
// transaction: a user is never charged without a recorded outcome.
type ServiceDraw struct {
	container  *do.Injector
	postgresDB *bun.DB
	redisDB    redis.UniversalClient

	serviceCampaign *ServiceCampaign
	serviceConfig   *ServiceConfig
	serviceLedger   *ServiceLedger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewServiceDraw(container *do.Injector) (*ServiceDraw, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	serviceCampaign, err := do.Invoke[*ServiceCampaign](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceLedger, err := do.Invoke[*ServiceLedger](container)
	if err != nil {
		return nil, err
	}

	return &ServiceDraw{
		container:       container,
		postgresDB:      postgresDB,
		redisDB:         redisDB,
		serviceCampaign: serviceCampaign,
		serviceConfig:   serviceConfig,
		serviceLedger:   serviceLedger,
	}, nil
}

// SetRand pins prize selection to an explicit source. Production leaves
// this unset and uses the chooser's own randomness.
func (service *ServiceDraw) SetRand(rng *rand.Rand) {
	service.mu.Lock()
	service.rng = rng
	service.mu.Unlock()
}

// Play runs one paid draw for the user. Rejections (unknown or inactive
// campaign, insufficient points) leave no rows behind.
func (service *ServiceDraw) Play(ctx context.Context, userID, campaignID string) (*models.DrawOutcome, error) {
	campaign, err := service.serviceCampaign.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if !campaign.Type.IsDraw() {
		return nil, ErrCampaignNotFound
	}

	if !campaign.ActiveAt(time.Now()) {
		return nil, ErrCampaignInactive
	}

	settings, err := campaign.GachaSettings()
	if err != nil {
		return nil, err
	}

	cost := settings.CostPerPlay
	if cost == 0 {
		cost, _ = service.serviceConfig.GetIntConfig(ctx, CONFIG_DEFAULT_DRAW_COST, DEFAULT_DRAW_COST)
	}

	prizes, err := service.serviceCampaign.GetPrizes(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	gacha, err := service.chooserFor(prizes)
	if err != nil {
		return nil, err
	}

	unlock, err := service.serviceLedger.LockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var outcome *models.DrawOutcome
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if cost > 0 {
			if _, err := service.serviceLedger.DebitTx(ctx, tx, userID, cost, models.REASON_DRAW_COST, campaignID); err != nil {
				return err
			}
		}

		prize := prizes[service.pick(gacha)]

		if prize.IsWinning {
			userPrize := &models.UserPrize{
				ID:         uuid.NewString(),
				UserID:     userID,
				CampaignID: campaignID,
				PrizeID:    prize.ID,
				PrizeName:  prize.Name,
			}
			if err := datastore.InsertUserPrize(ctx, tx, userPrize); err != nil {
				return err
			}
		}

		balance, err := datastore.GetPointBalance(ctx, tx, userID)
		if err != nil {
			return err
		}

		record := &models.DrawRecord{
			ID:           uuid.NewString(),
			UserID:       userID,
			CampaignID:   campaignID,
			PrizeID:      prize.ID,
			IsWinning:    prize.IsWinning,
			Cost:         cost,
			BalanceAfter: balance.CurrentPoints,
		}
		if err := datastore.InsertDrawRecord(ctx, tx, record); err != nil {
			return err
		}

		outcome = &models.DrawOutcome{
			PrizeID:      prize.ID,
			PrizeName:    prize.Name,
			IsWinning:    prize.IsWinning,
			Cost:         cost,
			BalanceAfter: balance.CurrentPoints,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.serviceLedger.ClearBalanceCache(ctx, userID)
	service.afterPlay(ctx, userID, campaignID, outcome)

	return outcome, nil
}

func (service *ServiceDraw) GetUserDraws(ctx context.Context, userID string, limit, offset int) ([]models.DrawRecord, error) {
	if limit <= 0 || limit > DEFAULT_HISTORY_PAGE_SIZE {
		limit = DEFAULT_HISTORY_PAGE_SIZE
	}
	if offset < 0 {
		offset = 0
	}

	return datastore.GetDrawRecords(ctx, service.postgresDB, userID, limit, offset)
}

func (service *ServiceDraw) GetUserPrizes(ctx context.Context, userID, campaignID string) ([]models.UserPrize, error) {
	return datastore.GetUserPrizes(ctx, service.postgresDB, userID, campaignID)
}

func (service *ServiceDraw) GetRecentWins(ctx context.Context, campaignID string) ([]models.RecentWin, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_RECENT_WINS_LIMIT, DEFAULT_RECENT_WINS_LIMIT)
	wins, err := redis_store.GetRecentWins(ctx, service.redisDB, campaignID, limit)
	if err != nil && err != redis.Nil {
		return nil, err
	}

	return wins, nil
}

// chooserFor builds the cumulative-weight table. Weights are basis
// points of the configured probability, so a table that does not sum to
// exactly 100 still selects proportionally.
func (service *ServiceDraw) chooserFor(prizes []models.Prize) (*ServiceGacha[int], error) {
	if len(prizes) == 0 {
		return nil, ErrNoPrizes
	}

	choices := make([]weightedrand.Choice[int, int], 0, len(prizes))
	for i, prize := range prizes {
		weight := int(math.Round(prize.Probability * WEIGHT_BASIS_POINTS))
		if weight < 0 {
			weight = 0
		}
		choices = append(choices, weightedrand.NewChoice(i, weight))
	}

	gacha, err := NewServiceGacha[int](choices)
	if err != nil {
		return nil, ErrNoPrizes
	}

	return gacha, nil
}

func (service *ServiceDraw) pick(gacha *ServiceGacha[int]) int {
	service.mu.Lock()
	defer service.mu.Unlock()

	if service.rng != nil {
		return gacha.PickSource(service.rng)
	}
	return gacha.Pick()
}

// afterPlay publishes side effects that must not gate the transaction:
// the mission counter for draw plays and the public recent-wins ticker.
func (service *ServiceDraw) afterPlay(ctx context.Context, userID, campaignID string, outcome *models.DrawOutcome) {
	serviceMission, err := do.Invoke[*ServiceMission](service.container)
	if err == nil {
		if err := serviceMission.RecordEvent(ctx, userID, models.MISSION_TYPE_DRAW_PLAY); err != nil {
			log.Println(err)
		}
	}

	if outcome == nil || !outcome.IsWinning {
		return
	}

	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_RECENT_WINS_LIMIT, DEFAULT_RECENT_WINS_LIMIT)
	win := &models.RecentWin{
		UserID:     userID,
		CampaignID: campaignID,
		PrizeName:  outcome.PrizeName,
		WonAt:      time.Now(),
	}
	if err := redis_store.PushRecentWin(ctx, service.redisDB, win, limit); err != nil {
		log.Println(err)
	}
}
