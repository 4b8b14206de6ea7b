package datastore

import (
	"context"

	"pointrally/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableMissionProgress(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.MissionProgress)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.MissionProgress)(nil)).Index("index_mission_progress_user_id_date").IfNotExists().Column("user_id", "date").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableAllMissionsBonusClaim(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.AllMissionsBonusClaim)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// EnsureMissionProgress lazily creates the per-day row. Racing creates
// collapse into the existing row via the conflict clause.
func EnsureMissionProgress(ctx context.Context, db bun.IDB, userID, missionID, date string) error {
	progress := &models.MissionProgress{
		UserID:    userID,
		MissionID: missionID,
		Date:      date,
	}
	_, err := db.NewInsert().Model(progress).On("CONFLICT (user_id, mission_id, date) DO NOTHING").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// IncrementMissionProgress bumps the counter, capped at the mission
// target. The cap lives in the WHERE clause so the increment stays a
// single atomic statement.
func IncrementMissionProgress(ctx context.Context, db bun.IDB, userID, missionID, date string, target int) error {
	_, err := db.NewUpdate().Model((*models.MissionProgress)(nil)).
		Set("current_count = current_count + 1").
		Where("user_id = ?", userID).
		Where("mission_id = ?", missionID).
		Where("date = ?", date).
		Where("current_count < ?", target).
		Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetMissionProgressByDate(ctx context.Context, db bun.IDB, userID, date string) ([]models.MissionProgress, error) {
	var progress []models.MissionProgress
	err := db.NewSelect().Model(&progress).
		Where("user_id = ?", userID).
		Where("date = ?", date).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return progress, nil
}

func GetMissionProgress(ctx context.Context, db bun.IDB, userID, missionID, date string) (*models.MissionProgress, error) {
	var progress models.MissionProgress
	err := db.NewSelect().Model(&progress).
		Where("user_id = ?", userID).
		Where("mission_id = ?", missionID).
		Where("date = ?", date).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &progress, nil
}

// MarkMissionRewardClaimed flips the claim flag at most once. Returns
// false when the flag was already set, which callers report as an
// idempotent no-op rather than an error.
func MarkMissionRewardClaimed(ctx context.Context, db bun.IDB, userID, missionID, date string) (bool, error) {
	res, err := db.NewUpdate().Model((*models.MissionProgress)(nil)).
		Set("reward_claimed = ?", true).
		Where("user_id = ?", userID).
		Where("mission_id = ?", missionID).
		Where("date = ?", date).
		Where("reward_claimed = ?", false).
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

// InsertAllMissionsBonusClaim is the per-day one-shot gate. Returns
// false when the bonus was already claimed for that date.
func InsertAllMissionsBonusClaim(ctx context.Context, db bun.IDB, userID, date string) (bool, error) {
	claim := &models.AllMissionsBonusClaim{
		UserID: userID,
		Date:   date,
	}
	res, err := db.NewInsert().Model(claim).On("CONFLICT (user_id, date) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func HasAllMissionsBonusClaim(ctx context.Context, db bun.IDB, userID, date string) (bool, error) {
	exists, err := db.NewSelect().Model((*models.AllMissionsBonusClaim)(nil)).
		Where("user_id = ?", userID).
		Where("date = ?", date).
		Exists(ctx)
	if err != nil {
		return false, err
	}

	return exists, nil
}
