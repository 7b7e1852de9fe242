// Command insightd runs one daily insight generation for an owner and
// prints the result. It is meant to be invoked by a scheduler, one run per
// day.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nehalnetha/budgetbuddy-backend/internal/cache"
	"github.com/nehalnetha/budgetbuddy-backend/internal/config"
	"github.com/nehalnetha/budgetbuddy-backend/internal/insight"
	"github.com/nehalnetha/budgetbuddy-backend/internal/logger"
	"github.com/nehalnetha/budgetbuddy-backend/internal/store/firestore"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	ownerFlag := flag.String("owner", "", "owner id to generate the insight for (overrides OWNER_ID)")
	flag.Parse()
	if *ownerFlag != "" {
		cfg.OwnerID = *ownerFlag
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.InvokeTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Connecting to Firestore failed")
	}
	defer store.Close()

	sessions, err := insight.NewGeminiSessionFactory(ctx, cfg.ModelName)
	if err != nil {
		log.Fatal().Err(err).Msg("Creating the Gemini client failed")
	}

	opts := []insight.Option{insight.WithRecentWindow(cfg.RecentInsights)}
	if cfg.DailyGuard {
		opts = append(opts, insight.WithDailyGuard())
	}
	if cfg.RedisAddr != "" {
		c, err := cache.New(ctx, cfg.RedisAddr, logger.WithComponent(log, "cache"))
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, running without cache")
		} else {
			defer c.Close()
			opts = append(opts, insight.WithCache(c))
		}
	}

	gen := insight.NewGenerator(
		store.Transactions(),
		store.Budgets(),
		store.Insights(),
		sessions,
		logger.WithComponent(log, "insight"),
		opts...,
	)

	log.Info().Str("owner_id", cfg.OwnerID).Str("model", cfg.ModelName).Msg("Starting insight generation")

	result, err := gen.GenerateDaily(ctx, cfg.OwnerID)
	if err != nil {
		if errors.Is(err, insight.ErrAlreadyGenerated) {
			log.Info().Str("owner_id", cfg.OwnerID).Msg("Insight already generated today, nothing to do")
			os.Exit(0)
		}
		log.Fatal().Err(err).Msg("Insight generation failed")
	}

	fmt.Println(result.Text)
}
