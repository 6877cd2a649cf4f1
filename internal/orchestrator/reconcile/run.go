package reconcile

import (
	"context"
	"encoding/json"
	"time"

	"coursehub/internal/config"
	"coursehub/internal/orchestrator/backfill"
	"coursehub/internal/pgmq"
	"coursehub/internal/repository"

	"github.com/rs/zerolog"
)

// batchSize caps how many missing-embedding courses get queued per sweep.
const batchSize = 100

// Run starts the reconcile orchestrator. Each sweep repairs missing
// creator-ownership rows and queues backfill jobs for courses without an
// embedding.
func Run(
	ctx context.Context,
	logger zerolog.Logger,
	client *pgmq.Client,
	cfg *config.Config,
	repo repository.CourseRepository,
) error {
	interval := time.Duration(cfg.ReconcileIntervalSec) * time.Second
	logger.Info().Dur("interval", interval).Msg("Starting reconcile orchestrator")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First sweep runs immediately rather than waiting a full interval.
	if err := sweep(ctx, logger, client, cfg, repo); err != nil {
		logger.Error().Err(err).Msg("Reconcile sweep failed")
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down reconcile orchestrator")
			return nil
		case <-ticker.C:
			if err := sweep(ctx, logger, client, cfg, repo); err != nil {
				logger.Error().Err(err).Msg("Reconcile sweep failed")
			}
		}
	}
}

func sweep(
	ctx context.Context,
	logger zerolog.Logger,
	client *pgmq.Client,
	cfg *config.Config,
	repo repository.CourseRepository,
) error {
	repaired, err := repo.RepairOwnerReferences(ctx)
	if err != nil {
		return err
	}
	if repaired > 0 {
		logger.Info().Int64("count", repaired).Msg("Repaired missing creator ownership rows")
	}

	courseIDs, err := repo.ListCoursesMissingEmbedding(ctx, batchSize)
	if err != nil {
		return err
	}
	for _, id := range courseIDs {
		payload, err := json.Marshal(backfill.Job{CourseID: id})
		if err != nil {
			return err
		}
		if err := client.Send(ctx, cfg.BackfillQueueName, payload); err != nil {
			return err
		}
	}
	if len(courseIDs) > 0 {
		logger.Info().Int("count", len(courseIDs)).Msg("Queued embedding backfill jobs")
	}
	return nil
}
