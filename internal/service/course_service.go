package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursehub/internal/model"
	"coursehub/internal/pubsub"
	"coursehub/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseNotPurchased = errors.New("course not purchased")
	ErrNotCourseCreator   = errors.New("not the course creator")
)

// CourseService defines the interface for course operations
type CourseService interface {
	// CreateCourse embeds the course text, persists the course together with
	// the creator's ownership reference, and returns the created record.
	CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	ListCourses(ctx context.Context, courseType model.CourseType) ([]model.Course, error)
	// UpdateCourse regenerates the embedding from the submitted
	// title/description and applies the full field set.
	UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error
	// ViewCourse returns the full course if the viewer owns it; notes PDF
	// storage paths are swapped for presigned URLs.
	ViewCourse(ctx context.Context, courseID, userID string) (*model.Course, error)
	// PurchaseCourse adds the course to the user's owned set; repeat
	// purchases are no-ops.
	PurchaseCourse(ctx context.Context, courseID, userID string) error
	// CreateAssetUploadURL returns a presigned upload URL for a course asset.
	// Only the course creator may request one.
	CreateAssetUploadURL(ctx context.Context, courseID, userID, filename string) (uploadURL, storagePath string, err error)
}

type courseService struct {
	repo        repository.CourseRepository
	userRepo    repository.UserRepository
	embedder    EmbeddingClient
	media       MediaService
	publisher   pubsub.Publisher
	eventsTopic string
	logger      zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	repo repository.CourseRepository,
	userRepo repository.UserRepository,
	embedder EmbeddingClient,
	media MediaService,
	publisher pubsub.Publisher,
	eventsTopic string,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		repo:        repo,
		userRepo:    userRepo,
		embedder:    embedder,
		media:       media,
		publisher:   publisher,
		eventsTopic: eventsTopic,
		logger:      logger.With().Str("service", "CourseService").Logger(),
	}
}

// courseEmbeddingText is the canonical embedding input: the embedding must
// always reflect the current title+description.
func courseEmbeddingText(title, description string) string {
	return title + "\n\n" + description
}

func (s *courseService) CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	embedding, err := s.embedder.Embed(ctx, courseEmbeddingText(c.Title, c.Description))
	if err != nil {
		s.logger.Error().Err(err).Str("title", c.Title).Msg("Failed to generate course embedding")
		return nil, fmt.Errorf("generating course embedding: %w", err)
	}
	c.Embedding = embedding

	if err := s.repo.CreateCourseWithOwner(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("title", c.Title).Msg("Failed to create course")
		return nil, fmt.Errorf("creating course: %w", err)
	}

	s.publishEvent(ctx, "course.created", c.ID, c.CreatedBy)
	return c, nil
}

func (s *courseService) ListCourses(ctx context.Context, courseType model.CourseType) ([]model.Course, error) {
	courses, err := s.repo.GetCoursesByType(ctx, courseType)
	if err != nil {
		s.logger.Error().Err(err).Str("type", string(courseType)).Msg("Failed to list courses")
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	existing, err := s.repo.GetCourseByID(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("looking up course: %w", err)
	}
	if existing == nil {
		return nil, ErrCourseNotFound
	}

	// Regenerated unconditionally so the stored embedding can never go stale.
	embedding, err := s.embedder.Embed(ctx, courseEmbeddingText(c.Title, c.Description))
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", c.ID).Msg("Failed to regenerate course embedding")
		return nil, fmt.Errorf("regenerating course embedding: %w", err)
	}
	c.Embedding = embedding

	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("course_id", c.ID).Msg("Failed to update course")
		return nil, fmt.Errorf("updating course: %w", err)
	}

	s.publishEvent(ctx, "course.updated", c.ID, "")
	return c, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, courseID string) error {
	existing, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("looking up course: %w", err)
	}
	if existing == nil {
		return ErrCourseNotFound
	}

	if err := s.repo.DeleteCourse(ctx, courseID); err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to delete course")
		return fmt.Errorf("deleting course: %w", err)
	}

	s.publishEvent(ctx, "course.deleted", courseID, "")
	return nil
}

func (s *courseService) ViewCourse(ctx context.Context, courseID, userID string) (*model.Course, error) {
	owned, err := s.userRepo.HasCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("checking course ownership: %w", err)
	}
	if !owned {
		return nil, ErrCourseNotPurchased
	}

	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("looking up course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	if course.NotesPDF != "" {
		notesURL, err := s.media.ResolveAssetURL(ctx, course.NotesPDF)
		if err != nil {
			return nil, fmt.Errorf("resolving notes url: %w", err)
		}
		course.NotesPDF = notesURL
	}

	return course, nil
}

func (s *courseService) PurchaseCourse(ctx context.Context, courseID, userID string) error {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("looking up course: %w", err)
	}
	if course == nil {
		return ErrCourseNotFound
	}

	if err := s.userRepo.AddCourse(ctx, userID, courseID); err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Str("user_id", userID).Msg("Failed to record purchase")
		return fmt.Errorf("recording purchase: %w", err)
	}

	s.publishEvent(ctx, "course.purchased", courseID, userID)
	return nil
}

func (s *courseService) CreateAssetUploadURL(ctx context.Context, courseID, userID, filename string) (string, string, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return "", "", fmt.Errorf("looking up course: %w", err)
	}
	if course == nil {
		return "", "", ErrCourseNotFound
	}
	if course.CreatedBy != userID {
		return "", "", ErrNotCourseCreator
	}

	return s.media.CreateUploadURL(ctx, courseID, filename)
}

// publishEvent emits a course lifecycle event. Publishing is best-effort:
// failures are logged and never fail the request.
func (s *courseService) publishEvent(ctx context.Context, eventType, courseID, userID string) {
	payload, err := pubsub.CourseEvent{
		Type:       eventType,
		CourseID:   courseID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}.Marshal()
	if err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("Failed to marshal course event")
		return
	}
	if _, err := s.publisher.Publish(ctx, s.eventsTopic, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Str("course_id", courseID).Msg("Failed to publish course event")
	}
}
