package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"pointrally/internal/datastore"
	"pointrally/internal/models"
	"pointrally/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ServiceMission tracks per-user, per-day progress against mission
// definitions. The mission day is the calendar date in one fixed
// reference timezone (MISSION_TIMEZONE, IANA name, default UTC); resets
// are new rows, old rows stay as history.
type ServiceMission struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	location           *time.Location

	serviceConfig *ServiceConfig
	serviceLedger *ServiceLedger
}

func NewServiceMission(container *do.Injector) (*ServiceMission, error) {
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

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceLedger, err := do.Invoke[*ServiceLedger](container)
	if err != nil {
		return nil, err
	}

	location := time.UTC
	if name := os.Getenv("MISSION_TIMEZONE"); name != "" {
		location, err = time.LoadLocation(name)
		if err != nil {
			return nil, err
		}
	}

	return &ServiceMission{container, postgresDB, readonlyPostgresDB, cache, readonlyCache, location, serviceConfig, serviceLedger}, nil
}

func (service *ServiceMission) today() string {
	return time.Now().In(service.location).Format("2006-01-02")
}

func (service *ServiceMission) GetDefinitions(ctx context.Context) ([]models.MissionDefinition, error) {
	callback := func() ([]models.MissionDefinition, error) {
		return datastore.GetEnabledMissionDefinitions(ctx, service.readonlyPostgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyMissionDefinitions(), CACHE_TTL_5_MINS, callback)
}

// RecordEvent bumps today's counter for every mission of the given
// type, creating rows lazily and capping at the target count.
func (service *ServiceMission) RecordEvent(ctx context.Context, userID, missionType string) error {
	definitions, err := service.GetDefinitions(ctx)
	if err != nil {
		return err
	}

	date := service.today()
	for _, definition := range definitions {
		if definition.Type != missionType {
			continue
		}

		if err := datastore.EnsureMissionProgress(ctx, service.postgresDB, userID, definition.ID, date); err != nil {
			return err
		}

		if err := datastore.IncrementMissionProgress(ctx, service.postgresDB, userID, definition.ID, date, definition.TargetCount); err != nil {
			return err
		}
	}

	return nil
}

// GetTodayProgress joins today's rows with their static definitions.
// Missions without an event today show up with a zero count.
func (service *ServiceMission) GetTodayProgress(ctx context.Context, userID string) ([]models.MissionStatus, error) {
	definitions, err := service.GetDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := datastore.GetMissionProgressByDate(ctx, service.postgresDB, userID, service.today())
	if err != nil {
		return nil, err
	}

	byMission := make(map[string]models.MissionProgress, len(rows))
	for _, row := range rows {
		byMission[row.MissionID] = row
	}

	statuses := make([]models.MissionStatus, 0, len(definitions))
	for _, definition := range definitions {
		progress := byMission[definition.ID]
		statuses = append(statuses, models.MissionStatus{
			MissionID:     definition.ID,
			Type:          definition.Type,
			Title:         definition.Title,
			CurrentCount:  progress.CurrentCount,
			TargetCount:   definition.TargetCount,
			Completed:     progress.CurrentCount >= definition.TargetCount,
			RewardClaimed: progress.RewardClaimed,
			RewardPoints:  definition.RewardPoints,
		})
	}

	return statuses, nil
}

// ClaimReward credits a completed mission exactly once. A second claim
// is an idempotent no-op reported through AlreadyClaimed, not an error.
func (service *ServiceMission) ClaimReward(ctx context.Context, userID, missionID string) (*models.ClaimResult, error) {
	definition, err := datastore.GetMissionDefinition(ctx, service.readonlyPostgresDB, missionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMissionNotFound
	}
	if err != nil {
		return nil, err
	}

	unlock, err := service.serviceLedger.LockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	date := service.today()
	progress, err := datastore.GetMissionProgress(ctx, service.postgresDB, userID, missionID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMissionNotCompleted
	}
	if err != nil {
		return nil, err
	}

	if progress.CurrentCount < definition.TargetCount {
		return nil, ErrMissionNotCompleted
	}

	result := &models.ClaimResult{}
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		claimed, err := datastore.MarkMissionRewardClaimed(ctx, tx, userID, missionID, date)
		if err != nil {
			return err
		}

		if !claimed {
			result.AlreadyClaimed = true
			return nil
		}

		if _, err := service.serviceLedger.CreditTx(ctx, tx, userID, definition.RewardPoints, models.REASON_MISSION_REWARD, missionID); err != nil {
			return err
		}

		result.PointsGranted = definition.RewardPoints
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.PointsGranted > 0 {
		service.serviceLedger.ClearBalanceCache(ctx, userID)
	}

	return result, nil
}

// CheckAllCompletedBonus reports whether every mission for today is
// completed and whether the per-day bonus is still unclaimed.
func (service *ServiceMission) CheckAllCompletedBonus(ctx context.Context, userID string) (*models.AllMissionsBonus, error) {
	statuses, err := service.GetTodayProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	allCompleted := len(statuses) > 0
	for _, status := range statuses {
		if !status.Completed {
			allCompleted = false
			break
		}
	}

	claimed, err := datastore.HasAllMissionsBonusClaim(ctx, service.postgresDB, userID, service.today())
	if err != nil {
		return nil, err
	}

	bonusPoints, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_ALL_MISSIONS_BONUS, DEFAULT_ALL_MISSIONS_BONUS)

	return &models.AllMissionsBonus{
		AllCompleted:   allCompleted,
		BonusAvailable: allCompleted && !claimed,
		BonusPoints:    bonusPoints,
	}, nil
}

func (service *ServiceMission) ClaimAllCompletedBonus(ctx context.Context, userID string) (*models.ClaimResult, error) {
	bonus, err := service.CheckAllCompletedBonus(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !bonus.AllCompleted {
		return nil, ErrMissionNotCompleted
	}

	unlock, err := service.serviceLedger.LockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	date := service.today()
	result := &models.ClaimResult{}
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		inserted, err := datastore.InsertAllMissionsBonusClaim(ctx, tx, userID, date)
		if err != nil {
			return err
		}

		if !inserted {
			result.AlreadyClaimed = true
			return nil
		}

		refID := fmt.Sprintf("all_missions:%s", date)
		if _, err := service.serviceLedger.CreditTx(ctx, tx, userID, bonus.BonusPoints, models.REASON_ALL_MISSIONS, refID); err != nil {
			return err
		}

		result.PointsGranted = bonus.BonusPoints
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.PointsGranted > 0 {
		service.serviceLedger.ClearBalanceCache(ctx, userID)
	}

	return result, nil
}
