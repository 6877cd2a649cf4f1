package backfill

import (
	"context"
	"encoding/json"
	"time"

	"coursehub/internal/config"
	"coursehub/internal/pgmq"
	"coursehub/internal/repository"
	"coursehub/internal/service"

	"github.com/rs/zerolog"
)

// Job is the embedding backfill payload queued by the reconcile orchestrator.
type Job struct {
	CourseID string `json:"courseId"`
}

// Run starts the embedding backfill orchestrator. It drains the backfill
// queue one message at a time, regenerating the embedding for each course.
func Run(
	ctx context.Context,
	logger zerolog.Logger,
	client *pgmq.Client,
	cfg *config.Config,
	repo repository.CourseRepository,
	embedder service.EmbeddingClient,
) error {
	logger.Info().Str("queue", cfg.BackfillQueueName).Msg("Starting embedding backfill orchestrator")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down embedding backfill orchestrator")
			return nil
		default:
		}

		msgs, err := client.ReadWithPoll(ctx, cfg.BackfillQueueName, cfg.BackfillPollTimeoutSec, cfg.BackfillPollMaxMsg)
		if err != nil {
			logger.Error().Err(err).Msg("Error reading backfill queue")
			time.Sleep(time.Second)
			continue
		}
		if len(msgs) == 0 {
			continue
		}

		for _, msg := range msgs {
			if err := process(ctx, logger, repo, embedder, msg.Data); err != nil {
				// Leave the message for the next visibility window.
				logger.Error().Err(err).Int64("msg_id", msg.ID).Msg("Backfill job failed")
				continue
			}
			if err := client.Delete(ctx, cfg.BackfillQueueName, []int64{msg.ID}); err != nil {
				logger.Error().Err(err).Int64("msg_id", msg.ID).Msg("Error deleting backfill message")
			}
		}
	}
}

func process(
	ctx context.Context,
	logger zerolog.Logger,
	repo repository.CourseRepository,
	embedder service.EmbeddingClient,
	data []byte,
) error {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return err
	}

	course, err := repo.GetCourseByID(ctx, job.CourseID)
	if err != nil {
		return err
	}
	if course == nil {
		// Course deleted since the job was queued; nothing to do.
		logger.Warn().Str("course_id", job.CourseID).Msg("Backfill job for missing course, skipping")
		return nil
	}

	embedding, err := embedder.Embed(ctx, course.Title+"\n\n"+course.Description)
	if err != nil {
		return err
	}
	if err := repo.UpdateEmbedding(ctx, course.ID, embedding); err != nil {
		return err
	}

	logger.Info().Str("course_id", course.ID).Msg("Course embedding backfilled")
	return nil
}
