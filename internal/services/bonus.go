package services

import (
	"context"
	"time"

	"pointrally/internal/datastore"
	"pointrally/internal/models"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ServiceBonus issues the one-shot grants: the welcome bonus and stamp
// rally credits. Each grant is gated by a unique-row insert committed in
// the same transaction as the credit, so a failed gate means no points.
type ServiceBonus struct {
	container  *do.Injector
	postgresDB *bun.DB

	serviceCampaign *ServiceCampaign
	serviceConfig   *ServiceConfig
	serviceLedger   *ServiceLedger
}

func NewServiceBonus(container *do.Injector) (*ServiceBonus, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
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

	return &ServiceBonus{container, postgresDB, serviceCampaign, serviceConfig, serviceLedger}, nil
}

// ClaimWelcomeBonus grants the fixed signup bonus at most once per
// user. Replays come back success-shaped with AlreadyClaimed set.
func (service *ServiceBonus) ClaimWelcomeBonus(ctx context.Context, userID string) (*models.WelcomeBonusResult, error) {
	amount, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_WELCOME_BONUS_POINTS, DEFAULT_WELCOME_BONUS_POINTS)

	unlock, err := service.serviceLedger.LockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := &models.WelcomeBonusResult{}
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		inserted, err := datastore.InsertWelcomeBonusClaim(ctx, tx, userID)
		if err != nil {
			return err
		}

		if !inserted {
			result.AlreadyClaimed = true
			result.Message = "welcome bonus already claimed"
			return nil
		}

		if _, err := service.serviceLedger.CreditTx(ctx, tx, userID, amount, models.REASON_WELCOME_BONUS, "welcome"); err != nil {
			return err
		}

		result.PointsGranted = amount
		result.Message = "welcome bonus granted"
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

// AcquireStamp collects one stamp of a rally campaign. Duplicates are
// no-ops; the completion bonus fires exactly once when the last stamp
// lands, gated by its own one-shot row.
func (service *ServiceBonus) AcquireStamp(ctx context.Context, userID, campaignID, stampID string, stampIndex int) (*models.StampResult, error) {
	campaign, err := service.serviceCampaign.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if campaign.Type != models.CampaignTypeStampRally {
		return nil, ErrCampaignNotFound
	}

	if !campaign.ActiveAt(time.Now()) {
		return nil, ErrCampaignInactive
	}

	settings, err := campaign.StampRallySettings()
	if err != nil {
		return nil, err
	}

	if stampID == "" || stampIndex < 1 || stampIndex > settings.TotalStamps {
		return nil, ErrInvalidStampID
	}

	unlock, err := service.serviceLedger.LockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := &models.StampResult{}
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		stamp := &models.UserStamp{
			UserID:     userID,
			CampaignID: campaignID,
			StampID:    stampID,
			StampIndex: stampIndex,
		}
		inserted, err := datastore.InsertUserStamp(ctx, tx, stamp)
		if err != nil {
			return err
		}

		if !inserted {
			result.AlreadyAcquired = true
		} else if settings.PointsPerStamp > 0 {
			if _, err := service.serviceLedger.CreditTx(ctx, tx, userID, settings.PointsPerStamp, models.REASON_STAMP_BONUS, campaignID); err != nil {
				return err
			}
			result.PointsGranted = settings.PointsPerStamp
		}

		count, err := datastore.CountUserStamps(ctx, tx, userID, campaignID)
		if err != nil {
			return err
		}
		result.StampCount = count
		result.Completed = count >= settings.TotalStamps

		if result.Completed && settings.CompletionBonus > 0 {
			claimed, err := datastore.InsertStampBonusClaim(ctx, tx, userID, campaignID)
			if err != nil {
				return err
			}

			if claimed {
				if _, err := service.serviceLedger.CreditTx(ctx, tx, userID, settings.CompletionBonus, models.REASON_STAMP_BONUS, campaignID); err != nil {
					return err
				}
				result.BonusGranted = settings.CompletionBonus
			}
		}

		balance, err := datastore.GetPointBalance(ctx, tx, userID)
		if err != nil {
			return err
		}
		result.BalanceAfter = balance.CurrentPoints

		return nil
	})
	if err != nil {
		return nil, err
	}

	service.serviceLedger.ClearBalanceCache(ctx, userID)

	return result, nil
}

func (service *ServiceBonus) GetUserStamps(ctx context.Context, userID, campaignID string) ([]models.UserStamp, error) {
	return datastore.GetUserStamps(ctx, service.postgresDB, userID, campaignID)
}
