package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"pointrally/internal/models"

	"github.com/samber/do"
)

func seedRally(t *testing.T, container *do.Injector, id string, settings models.StampRallySettings) {
	t.Helper()

	raw, err := json.Marshal(settings)
	if err != nil {
		t.Fatal(err)
	}

	seedCampaign(t, container, &models.Campaign{
		ID:       id,
		Type:     models.CampaignTypeStampRally,
		OwnerID:  "owner-1",
		Title:    "Test Rally",
		Settings: raw,
		Enabled:  true,
	}, nil)
}

func TestWelcomeBonusGrantedOnce(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	bonus := do.MustInvoke[*ServiceBonus](container)

	result, err := bonus.ClaimWelcomeBonus(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if result.PointsGranted != DEFAULT_WELCOME_BONUS_POINTS || result.AlreadyClaimed {
		t.Errorf("first claim: %+v", result)
	}

	result, err = bonus.ClaimWelcomeBonus(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if result.PointsGranted != 0 || !result.AlreadyClaimed {
		t.Errorf("second claim: %+v", result)
	}

	balance := mustBalance(t, container, "user-1")
	if balance.CurrentPoints != DEFAULT_WELCOME_BONUS_POINTS {
		t.Errorf("current = %d, want %d", balance.CurrentPoints, DEFAULT_WELCOME_BONUS_POINTS)
	}

	ledger := do.MustInvoke[*ServiceLedger](container)
	if err := ledger.VerifyUser(ctx, "user-1"); err != nil {
		t.Errorf("VerifyUser: %v", err)
	}
}

func TestWelcomeBonusConcurrentClaims(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	bonus := do.MustInvoke[*ServiceBonus](container)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			result, err := bonus.ClaimWelcomeBonus(ctx, "user-1")
			if err != nil {
				t.Errorf("claim: %v", err)
				return
			}

			mu.Lock()
			granted += result.PointsGranted
			mu.Unlock()
		}()
	}
	wg.Wait()

	if granted != DEFAULT_WELCOME_BONUS_POINTS {
		t.Errorf("total granted = %d, want %d", granted, DEFAULT_WELCOME_BONUS_POINTS)
	}

	balance := mustBalance(t, container, "user-1")
	if balance.CurrentPoints != DEFAULT_WELCOME_BONUS_POINTS {
		t.Errorf("current = %d, want %d", balance.CurrentPoints, DEFAULT_WELCOME_BONUS_POINTS)
	}
}

func TestWelcomeBonusConfiguredAmount(t *testing.T) {
	container := newTestContainer(t)

	seedConfig(t, container, CONFIG_WELCOME_BONUS_POINTS, "250")

	bonus := do.MustInvoke[*ServiceBonus](container)
	result, err := bonus.ClaimWelcomeBonus(context.Background(), "user-1")
	if err != nil {
		t.Fatal(err)
	}

	if result.PointsGranted != 250 {
		t.Errorf("granted = %d, want 250", result.PointsGranted)
	}
}

func TestStampRallyFullRound(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	seedRally(t, container, "rally-1", models.StampRallySettings{
		TotalStamps:     3,
		PointsPerStamp:  5,
		CompletionBonus: 30,
	})

	bonus := do.MustInvoke[*ServiceBonus](container)

	result, err := bonus.AcquireStamp(ctx, "user-1", "rally-1", "s1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.AlreadyAcquired || result.PointsGranted != 5 || result.StampCount != 1 || result.Completed {
		t.Errorf("first stamp: %+v", result)
	}

	// duplicate stamp is a no-op
	result, err = bonus.AcquireStamp(ctx, "user-1", "rally-1", "s1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !result.AlreadyAcquired || result.PointsGranted != 0 || result.StampCount != 1 {
		t.Errorf("duplicate stamp: %+v", result)
	}

	if _, err := bonus.AcquireStamp(ctx, "user-1", "rally-1", "s2", 2); err != nil {
		t.Fatal(err)
	}

	result, err = bonus.AcquireStamp(ctx, "user-1", "rally-1", "s3", 3)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Completed || result.BonusGranted != 30 {
		t.Errorf("final stamp: %+v", result)
	}
	if result.BalanceAfter != 3*5+30 {
		t.Errorf("balance after = %d, want 45", result.BalanceAfter)
	}

	// completion bonus never fires twice
	result, err = bonus.AcquireStamp(ctx, "user-1", "rally-1", "s3", 3)
	if err != nil {
		t.Fatal(err)
	}
	if !result.AlreadyAcquired || result.BonusGranted != 0 {
		t.Errorf("re-acquire after completion: %+v", result)
	}

	stamps, err := bonus.GetUserStamps(ctx, "user-1", "rally-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stamps) != 3 {
		t.Errorf("stamp count = %d, want 3", len(stamps))
	}

	ledger := do.MustInvoke[*ServiceLedger](container)
	if err := ledger.VerifyUser(ctx, "user-1"); err != nil {
		t.Errorf("VerifyUser: %v", err)
	}
}

func TestStampRallyValidation(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	seedRally(t, container, "rally-1", models.StampRallySettings{
		TotalStamps:    3,
		PointsPerStamp: 5,
	})

	seedGacha(t, container, "gacha-1", 10, nil)

	past := time.Now().Add(-time.Hour)
	raw, _ := json.Marshal(models.StampRallySettings{TotalStamps: 3})
	seedCampaign(t, container, &models.Campaign{
		ID:       "rally-ended",
		Type:     models.CampaignTypeStampRally,
		OwnerID:  "owner-1",
		Title:    "Ended Rally",
		Settings: raw,
		EndsAt:   &past,
		Enabled:  true,
	}, nil)

	bonus := do.MustInvoke[*ServiceBonus](container)

	cases := []struct {
		name       string
		campaignID string
		stampID    string
		stampIndex int
		want       error
	}{
		{"empty stamp id", "rally-1", "", 1, ErrInvalidStampID},
		{"index zero", "rally-1", "s0", 0, ErrInvalidStampID},
		{"index beyond total", "rally-1", "s4", 4, ErrInvalidStampID},
		{"unknown campaign", "missing", "s1", 1, ErrCampaignNotFound},
		{"draw campaign", "gacha-1", "s1", 1, ErrCampaignNotFound},
		{"ended campaign", "rally-ended", "s1", 1, ErrCampaignInactive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := bonus.AcquireStamp(ctx, "user-1", tc.campaignID, tc.stampID, tc.stampIndex)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
