package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"pointrally/internal/datastore"
	"pointrally/internal/models"
	"pointrally/internal/services"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
			commandSeedDemo(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePointBalance(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePointTransaction(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableCampaign(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePrize(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUserPrize(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableDrawRecord(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableMissionDefinition(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableMissionProgress(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableAllMissionsBonusClaim(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableWelcomeBonusClaim(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUserStamp(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableStampBonusClaim(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// insert default configs to db
func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-config",
		Description: "Insert default configs to db",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_WELCOME_BONUS_POINTS, Value: "100"},
				{Key: services.CONFIG_ALL_MISSIONS_BONUS, Value: "50"},
				{Key: services.CONFIG_DEFAULT_DRAW_COST, Value: "10"},
				{Key: services.CONFIG_RECENT_WINS_LIMIT, Value: "20"},
			}

			for _, config := range configs {
				_, err = db.NewInsert().Model(&config).Exec(ctx)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// seed a demo gacha campaign, a stamp rally and the default mission set
// so a fresh environment is playable right away
func commandSeedDemo() *cli.Command {
	return &cli.Command{
		Name:        "seed-demo",
		Description: "Insert demo campaigns, prizes and missions",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			gachaSettings, _ := json.Marshal(models.GachaSettings{CostPerPlay: 10})
			rallySettings, _ := json.Marshal(models.StampRallySettings{
				TotalStamps:     3,
				PointsPerStamp:  5,
				CompletionBonus: 30,
			})

			campaigns := []*models.Campaign{
				{
					ID:       "demo-gacha",
					Type:     models.CampaignTypeGacha,
					OwnerID:  "demo",
					Title:    "Demo Gacha",
					Settings: gachaSettings,
					Enabled:  true,
				},
				{
					ID:       "demo-rally",
					Type:     models.CampaignTypeStampRally,
					OwnerID:  "demo",
					Title:    "Demo Stamp Rally",
					Settings: rallySettings,
					Enabled:  true,
				},
			}

			for _, campaign := range campaigns {
				if err := datastore.InsertCampaign(ctx, db, campaign); err != nil {
					log.Println(err)
				}
			}

			prizes := []*models.Prize{
				{ID: "demo-gacha-gold", CampaignID: "demo-gacha", Name: "Gold Coupon", Probability: 10, IsWinning: true, Position: 1},
				{ID: "demo-gacha-silver", CampaignID: "demo-gacha", Name: "Silver Coupon", Probability: 30, IsWinning: true, Position: 2},
				{ID: "demo-gacha-miss", CampaignID: "demo-gacha", Name: "Better luck next time", Probability: 60, IsWinning: false, Position: 3},
			}
			if err := datastore.InsertPrizes(ctx, db, prizes); err != nil {
				log.Println(err)
			}

			missions := []*models.MissionDefinition{
				{ID: "daily-login", Type: models.MISSION_TYPE_LOGIN, Title: "Visit the app", TargetCount: 1, RewardPoints: 5, Enabled: true},
				{ID: "daily-draws", Type: models.MISSION_TYPE_DRAW_PLAY, Title: "Play 3 draws", TargetCount: 3, RewardPoints: 10, Enabled: true},
				{ID: "daily-quiz", Type: models.MISSION_TYPE_QUIZ_PLAY, Title: "Complete a quiz", TargetCount: 1, RewardPoints: 5, Enabled: true},
			}
			for _, mission := range missions {
				if err := datastore.InsertMissionDefinition(ctx, db, mission); err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Seed success")

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
