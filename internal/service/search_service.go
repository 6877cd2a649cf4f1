package service

import (
	"context"
	"fmt"

	"coursehub/internal/model"
	"coursehub/internal/repository"

	"github.com/rs/zerolog"
)

// scoreThreshold is the hard relevance floor: candidates scoring below it
// are dropped regardless of how few results remain.
const scoreThreshold = 0.7

// SearchMode selects how explanations are generated.
type SearchMode string

const (
	SearchModeSummary  SearchMode = "summary"
	SearchModeDetailed SearchMode = "detailed"
)

// SearchResult is the outcome of a semantic catalog search.
type SearchResult struct {
	Courses []model.ScoredCourse
	// Summary is set in summary mode only; detailed mode attaches an
	// explanation to each course instead.
	Summary string
}

type SearchService interface {
	Search(ctx context.Context, query string, limit int, explain bool, mode SearchMode) (*SearchResult, error)
}

type searchService struct {
	repo      repository.CourseRepository
	embedder  EmbeddingClient
	explainer ExplanationClient
	logger    zerolog.Logger
}

func NewSearchService(
	repo repository.CourseRepository,
	embedder EmbeddingClient,
	explainer ExplanationClient,
	logger zerolog.Logger,
) SearchService {
	return &searchService{
		repo:      repo,
		embedder:  embedder,
		explainer: explainer,
		logger:    logger.With().Str("service", "SearchService").Logger(),
	}
}

func (s *searchService) Search(ctx context.Context, query string, limit int, explain bool, mode SearchMode) (*SearchResult, error) {
	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to embed search query")
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	candidates, err := s.repo.SearchByEmbedding(ctx, queryEmbedding, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Vector search failed")
		return nil, fmt.Errorf("vector search: %w", err)
	}

	courses := make([]model.ScoredCourse, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= scoreThreshold {
			courses = append(courses, c)
		}
	}

	result := &SearchResult{Courses: courses}
	if len(courses) == 0 || !explain {
		return result, nil
	}

	switch mode {
	case SearchModeSummary:
		// Single LLM call covering every result keeps latency down.
		summary, err := s.explainer.Summarize(ctx, query, courses)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to generate search summary")
			return nil, fmt.Errorf("generating summary: %w", err)
		}
		result.Summary = summary
	case SearchModeDetailed:
		// One call per course, issued sequentially: the provider rate-limits
		// and nothing here is latency-critical enough to fan out.
		for i := range courses {
			explanation, err := s.explainer.Explain(ctx, query, courses[i])
			if err != nil {
				s.logger.Error().Err(err).Str("course_id", courses[i].ID).Msg("Failed to generate course explanation")
				return nil, fmt.Errorf("generating explanation: %w", err)
			}
			courses[i].Explanation = explanation
		}
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}

	return result, nil
}
