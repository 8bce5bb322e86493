package main

import (
	"context"
	"errors"
	"os"
	"time"

	"giveaway/internal/audit"
	"giveaway/internal/lottery"
	"giveaway/internal/platform/config"
	"giveaway/internal/platform/logger"
	"giveaway/internal/storage/postgres"
)

// selectwinner runs one draw for the current month and exits. It is meant
// to be invoked on an external cadence (cron, once monthly). An empty pool
// is a clean exit; store failures are not.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is required for winner selection")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.InitSchema(ctx, db); err != nil {
		log.Error("schema init failed", "error", err)
		os.Exit(1)
	}

	regStore := postgres.NewRegistrationStore(db)
	winnerStore := postgres.NewWinnerStore(db)
	recorder := audit.NewRecorder(postgres.NewAuditStore(db))
	service := lottery.NewService(regStore, winnerStore, recorder)

	winner, err := service.SelectWinner(ctx, time.Now())
	if errors.Is(err, lottery.ErrNoParticipants) {
		log.Info("no participants found for this month")
		return
	}
	if err != nil {
		log.Error("winner selection failed", "error", err)
		os.Exit(1)
	}

	log.Info("winner selected",
		"winner_id", winner.ID.String(),
		"registration_id", winner.RegistrationID.String(),
	)
}
