package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/AnshRaj112/serenify-journal/internal/config"
	"github.com/AnshRaj112/serenify-journal/internal/database"
	"github.com/AnshRaj112/serenify-journal/internal/logger"
	"github.com/AnshRaj112/serenify-journal/internal/repository"
	"github.com/AnshRaj112/serenify-journal/internal/services"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds the connections shared by every subcommand.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	db       *sql.DB
	redis    *redis.Client
	repo     *repository.Repository
	insights *services.InsightsService
	journal  *services.JournalService
}

var state app

var rootCmd = &cobra.Command{
	Use:           "journaladmin",
	Short:         "Operate on the Serenify journal store",
	Long:          `Runs schema setup and user-scoped insight and maintenance queries against the configured store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return state.open()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return state.close()
	},
}

func (a *app) open() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.NewWithWriter(os.Stderr, cfg.Environment, cfg.LogLevel)

	a.db, err = database.Open(cfg, a.log)
	if err != nil {
		return err
	}

	if cfg.CacheEnabled() {
		a.redis, err = database.ConnectRedis(cfg.RedisURI, a.log)
		if err != nil {
			a.log.Warn().Err(err).Msg("insights cache disabled")
			a.redis = nil
		}
	}

	a.repo = repository.New(a.log)
	a.insights = services.NewInsightsService(a.db, a.repo, a.redis, cfg.InsightsCacheTTL, a.log)
	a.journal = services.NewJournalService(a.db, a.repo, a.insights, a.log)
	return nil
}

func (a *app) close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing redis")
		}
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
