package service

import (
	"context"
	"errors"
	"testing"

	"coursehub/internal/model"

	"github.com/rs/zerolog"
)

func scored(id string, score float64) model.ScoredCourse {
	return model.ScoredCourse{Course: model.Course{ID: id}, Score: score}
}

type searchFixture struct {
	repo      *fakeCourseRepo
	embedder  *fakeEmbedder
	explainer *fakeExplainer
	svc       SearchService
}

func newSearchFixture(results ...model.ScoredCourse) *searchFixture {
	f := &searchFixture{
		repo:      newFakeCourseRepo(),
		embedder:  &fakeEmbedder{vec: []float32{0.5, 0.5}},
		explainer: &fakeExplainer{summary: "These courses cover Go."},
	}
	f.repo.searchResults = results
	f.svc = NewSearchService(f.repo, f.embedder, f.explainer, zerolog.Nop())
	return f
}

func TestSearchFiltersBelowThreshold(t *testing.T) {
	f := newSearchFixture(scored("c1", 0.92), scored("c2", 0.71), scored("c3", 0.42))

	result, err := f.svc.Search(context.Background(), "golang", 3, false, SearchModeSummary)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(result.Courses) != 2 {
		t.Fatalf("expected 2 results above threshold, got %d", len(result.Courses))
	}
	if result.Courses[0].ID != "c1" || result.Courses[1].ID != "c2" {
		t.Fatalf("unexpected result order: %v, %v", result.Courses[0].ID, result.Courses[1].ID)
	}
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	f := newSearchFixture(scored("c1", 0.2))

	result, err := f.svc.Search(context.Background(), "quantum basket weaving", 3, true, SearchModeSummary)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(result.Courses) != 0 {
		t.Fatalf("expected no results, got %d", len(result.Courses))
	}
	if f.explainer.summaryCalls != 0 || len(f.explainer.explainCalls) != 0 {
		t.Fatal("no LLM calls expected when nothing matched")
	}
}

func TestSearchExplainDisabledSkipsLLM(t *testing.T) {
	f := newSearchFixture(scored("c1", 0.9))

	result, err := f.svc.Search(context.Background(), "golang", 3, false, SearchModeSummary)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.Summary != "" {
		t.Fatalf("expected no summary, got %q", result.Summary)
	}
	if f.explainer.summaryCalls != 0 || len(f.explainer.explainCalls) != 0 {
		t.Fatal("no LLM calls expected with explain disabled")
	}
}

func TestSearchSummaryModeSingleCall(t *testing.T) {
	f := newSearchFixture(scored("c1", 0.9), scored("c2", 0.8))

	result, err := f.svc.Search(context.Background(), "golang", 3, true, SearchModeSummary)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.Summary != "These courses cover Go." {
		t.Fatalf("unexpected summary %q", result.Summary)
	}
	if f.explainer.summaryCalls != 1 {
		t.Fatalf("expected exactly one summary call, got %d", f.explainer.summaryCalls)
	}
	if len(f.explainer.explainCalls) != 0 {
		t.Fatal("summary mode must not issue per-course calls")
	}
}

func TestSearchDetailedModePerCourseCalls(t *testing.T) {
	f := newSearchFixture(scored("c1", 0.9), scored("c2", 0.8))

	result, err := f.svc.Search(context.Background(), "golang", 3, true, SearchModeDetailed)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if result.Summary != "" {
		t.Fatalf("detailed mode must not set a summary, got %q", result.Summary)
	}
	if len(f.explainer.explainCalls) != 2 {
		t.Fatalf("expected one explain call per course, got %d", len(f.explainer.explainCalls))
	}
	for _, c := range result.Courses {
		if c.Explanation == "" {
			t.Fatalf("course %s is missing its explanation", c.ID)
		}
	}
}

func TestSearchEmbeddingFailure(t *testing.T) {
	f := newSearchFixture(scored("c1", 0.9))
	f.embedder.err = errors.New("provider unavailable")

	if _, err := f.svc.Search(context.Background(), "golang", 3, true, SearchModeSummary); err == nil {
		t.Fatal("expected error when query embedding fails")
	}
}

func TestSearchUnknownMode(t *testing.T) {
	f := newSearchFixture(scored("c1", 0.9))

	if _, err := f.svc.Search(context.Background(), "golang", 3, true, SearchMode("verbose")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestSearchPassesLimitToRepository(t *testing.T) {
	f := newSearchFixture()

	if _, err := f.svc.Search(context.Background(), "golang", 5, false, SearchModeSummary); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if f.repo.searchLimit != 5 {
		t.Fatalf("expected limit 5 passed to repository, got %d", f.repo.searchLimit)
	}
}
