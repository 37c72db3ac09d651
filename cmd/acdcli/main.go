package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nabcos/acd-cli/internal/adapter"
	"github.com/nabcos/acd-cli/internal/cache"
	"github.com/nabcos/acd-cli/internal/config"
	"github.com/nabcos/acd-cli/internal/logger"
	"github.com/nabcos/acd-cli/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewFileLogger("acd-cli")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	db, err := store.Connect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect cache database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate cache schema")
	}

	storage := store.NewNodeStorage(db, log)
	syncer := cache.NewSyncer(storage, log)
	changes := adapter.NewChangesClient(cfg.Adapter, log)

	if err = runSync(ctx, cfg, log, syncer, changes); err != nil {
		log.Fatal().Err(err).Msg("sync failed")
	}
}

// runSync performs one sync round: pick incremental or full resync based on
// cache age, fetch the change sets, then per frame apply nodes, purge list,
// and checkpoint, in that order.
func runSync(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger, syncer cache.Syncer, changes adapter.ChangesClient) error {
	roundLog := &logger.Logger{Logger: log.With().Str("trace_id", uuid.NewString()).Logger()}
	ctx = roundLog.WithContext(ctx)

	checkpoint, err := syncer.GetCheckpoint(ctx)
	if err != nil {
		return fmt.Errorf("read checkpoint: %w", err)
	}

	age, err := syncer.MaxAge(ctx)
	if err != nil {
		return fmt.Errorf("estimate cache age: %w", err)
	}
	if cfg.Sync.MaxAgeDays > 0 && age > cfg.Sync.MaxAgeDays {
		roundLog.Info().
			Float64("age_days", age).
			Float64("max_age_days", cfg.Sync.MaxAgeDays).
			Msg("cache too old, requesting full resync")
		checkpoint = ""
	}

	sets, err := changes.Changes(ctx, checkpoint)
	if err != nil {
		return fmt.Errorf("fetch changes: %w", err)
	}

	for _, set := range sets {
		if set.Reset {
			roundLog.Info().Msg("server reset the checkpoint, frame carries a full snapshot")
		}

		if err = syncer.InsertNodes(ctx, set.Nodes); err != nil {
			return fmt.Errorf("insert nodes: %w", err)
		}
		if err = syncer.RemovePurged(ctx, set.Purged); err != nil {
			return fmt.Errorf("remove purged nodes: %w", err)
		}
		if set.Checkpoint != "" {
			if err = syncer.SetCheckpoint(ctx, set.Checkpoint); err != nil {
				return fmt.Errorf("persist checkpoint: %w", err)
			}
		}
	}

	roundLog.Info().Int("change_sets", len(sets)).Msg("sync round completed")

	return nil
}

func printBuildInfo() {
	fmt.Printf("Build version: %s\n", orNA(buildVersion))
	fmt.Printf("Build date: %s\n", orNA(buildDate))
	fmt.Printf("Build commit: %s\n", orNA(buildCommit))
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
