package services

import (
	"context"
	"errors"
	"testing"

	"pointrally/internal/models"

	"github.com/samber/do"
)

func seedDailyMissions(t *testing.T, container *do.Injector) {
	t.Helper()

	seedMission(t, container, &models.MissionDefinition{
		ID:           "daily-login",
		Type:         models.MISSION_TYPE_LOGIN,
		Title:        "Visit the app",
		TargetCount:  1,
		RewardPoints: 5,
		Enabled:      true,
	})
	seedMission(t, container, &models.MissionDefinition{
		ID:           "daily-quiz",
		Type:         models.MISSION_TYPE_QUIZ_PLAY,
		Title:        "Complete 2 quizzes",
		TargetCount:  2,
		RewardPoints: 10,
		Enabled:      true,
	})
}

func TestMissionRecordEventCapsAtTarget(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	seedDailyMissions(t, container)

	mission := do.MustInvoke[*ServiceMission](container)
	for i := 0; i < 5; i++ {
		if err := mission.RecordEvent(ctx, "user-1", models.MISSION_TYPE_QUIZ_PLAY); err != nil {
			t.Fatal(err)
		}
	}

	statuses, err := mission.GetTodayProgress(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}

	for _, status := range statuses {
		switch status.MissionID {
		case "daily-quiz":
			if status.CurrentCount != 2 {
				t.Errorf("quiz count = %d, want capped at 2", status.CurrentCount)
			}
			if !status.Completed {
				t.Error("quiz mission should be completed")
			}
		case "daily-login":
			if status.CurrentCount != 0 || status.Completed {
				t.Errorf("login mission should be untouched: %+v", status)
			}
		}
	}
}

func TestMissionProgressWithoutEvents(t *testing.T) {
	container := newTestContainer(t)

	seedDailyMissions(t, container)

	mission := do.MustInvoke[*ServiceMission](container)
	statuses, err := mission.GetTodayProgress(context.Background(), "user-1")
	if err != nil {
		t.Fatal(err)
	}

	if len(statuses) != 2 {
		t.Fatalf("status count = %d, want 2", len(statuses))
	}
	for _, status := range statuses {
		if status.CurrentCount != 0 || status.Completed || status.RewardClaimed {
			t.Errorf("fresh mission should be zeroed: %+v", status)
		}
	}
}

func TestMissionClaimRewardIdempotent(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	seedDailyMissions(t, container)

	mission := do.MustInvoke[*ServiceMission](container)
	if err := mission.RecordEvent(ctx, "user-1", models.MISSION_TYPE_LOGIN); err != nil {
		t.Fatal(err)
	}

	result, err := mission.ClaimReward(ctx, "user-1", "daily-login")
	if err != nil {
		t.Fatal(err)
	}
	if result.PointsGranted != 5 || result.AlreadyClaimed {
		t.Errorf("first claim: %+v", result)
	}

	result, err = mission.ClaimReward(ctx, "user-1", "daily-login")
	if err != nil {
		t.Fatal(err)
	}
	if result.PointsGranted != 0 || !result.AlreadyClaimed {
		t.Errorf("second claim: %+v", result)
	}

	balance := mustBalance(t, container, "user-1")
	if balance.CurrentPoints != 5 {
		t.Errorf("current = %d, want 5", balance.CurrentPoints)
	}

	ledger := do.MustInvoke[*ServiceLedger](container)
	if err := ledger.VerifyUser(ctx, "user-1"); err != nil {
		t.Errorf("VerifyUser: %v", err)
	}
}

func TestMissionClaimRewardGates(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	seedDailyMissions(t, container)

	mission := do.MustInvoke[*ServiceMission](container)

	if _, err := mission.ClaimReward(ctx, "user-1", "no-such-mission"); !errors.Is(err, ErrMissionNotFound) {
		t.Errorf("unknown mission: err = %v, want ErrMissionNotFound", err)
	}

	if _, err := mission.ClaimReward(ctx, "user-1", "daily-login"); !errors.Is(err, ErrMissionNotCompleted) {
		t.Errorf("no progress: err = %v, want ErrMissionNotCompleted", err)
	}

	if err := mission.RecordEvent(ctx, "user-1", models.MISSION_TYPE_QUIZ_PLAY); err != nil {
		t.Fatal(err)
	}
	if _, err := mission.ClaimReward(ctx, "user-1", "daily-quiz"); !errors.Is(err, ErrMissionNotCompleted) {
		t.Errorf("partial progress: err = %v, want ErrMissionNotCompleted", err)
	}
}

func TestMissionAllCompletedBonus(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	seedDailyMissions(t, container)

	mission := do.MustInvoke[*ServiceMission](container)

	if err := mission.RecordEvent(ctx, "user-1", models.MISSION_TYPE_LOGIN); err != nil {
		t.Fatal(err)
	}

	// one mission incomplete, the bonus must not be claimable
	if _, err := mission.ClaimAllCompletedBonus(ctx, "user-1"); !errors.Is(err, ErrMissionNotCompleted) {
		t.Fatalf("partial day: err = %v, want ErrMissionNotCompleted", err)
	}

	for i := 0; i < 2; i++ {
		if err := mission.RecordEvent(ctx, "user-1", models.MISSION_TYPE_QUIZ_PLAY); err != nil {
			t.Fatal(err)
		}
	}

	bonus, err := mission.CheckAllCompletedBonus(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if !bonus.AllCompleted || !bonus.BonusAvailable {
		t.Fatalf("bonus should be available: %+v", bonus)
	}

	result, err := mission.ClaimAllCompletedBonus(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if result.PointsGranted != DEFAULT_ALL_MISSIONS_BONUS || result.AlreadyClaimed {
		t.Errorf("first claim: %+v", result)
	}

	result, err = mission.ClaimAllCompletedBonus(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if result.PointsGranted != 0 || !result.AlreadyClaimed {
		t.Errorf("second claim: %+v", result)
	}

	bonus, err = mission.CheckAllCompletedBonus(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if bonus.BonusAvailable {
		t.Error("bonus still reported available after claim")
	}

	balance := mustBalance(t, container, "user-1")
	if balance.CurrentPoints != DEFAULT_ALL_MISSIONS_BONUS {
		t.Errorf("current = %d, want %d", balance.CurrentPoints, DEFAULT_ALL_MISSIONS_BONUS)
	}
}

func TestMissionBonusRequiresDefinitions(t *testing.T) {
	container := newTestContainer(t)

	mission := do.MustInvoke[*ServiceMission](container)
	bonus, err := mission.CheckAllCompletedBonus(context.Background(), "user-1")
	if err != nil {
		t.Fatal(err)
	}

	if bonus.AllCompleted || bonus.BonusAvailable {
		t.Errorf("no definitions must not complete the day: %+v", bonus)
	}
}
