package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coursehub/internal/model"

	"github.com/rs/zerolog"
)

func generateStub(t *testing.T, reply string, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if capture != nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			*capture = req.Contents[0].Parts[0].Text
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": reply}}}},
			},
		})
	}))
}

func TestSummarizePromptIncludesCourses(t *testing.T) {
	var prompt string
	srv := generateStub(t, "  Both courses cover Go.  ", &prompt)
	defer srv.Close()

	client := NewGeminiExplanationClient(srv.URL, "test-key", "gemini-2.0-flash", zerolog.Nop())
	summary, err := client.Summarize(context.Background(), "golang", []model.ScoredCourse{
		{Course: model.Course{Title: "Go Basics", Description: "Intro"}},
		{Course: model.Course{Title: "Advanced Go", Description: "Concurrency"}},
	})
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary != "Both courses cover Go." {
		t.Fatalf("expected trimmed reply, got %q", summary)
	}
	for _, want := range []string{"golang", "Go Basics", "Advanced Go"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestExplainPromptIncludesCourse(t *testing.T) {
	var prompt string
	srv := generateStub(t, "Relevant because it teaches Go.", &prompt)
	defer srv.Close()

	client := NewGeminiExplanationClient(srv.URL, "test-key", "gemini-2.0-flash", zerolog.Nop())
	explanation, err := client.Explain(context.Background(), "golang", model.ScoredCourse{
		Course: model.Course{Title: "Go Basics", Description: "Intro"},
	})
	if err != nil {
		t.Fatalf("Explain returned error: %v", err)
	}
	if explanation == "" {
		t.Fatal("expected a non-empty explanation")
	}
	if !strings.Contains(prompt, "Go Basics") {
		t.Fatalf("prompt missing course title:\n%s", prompt)
	}
}

func TestGenerateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	client := NewGeminiExplanationClient(srv.URL, "test-key", "gemini-2.0-flash", zerolog.Nop())
	if _, err := client.Explain(context.Background(), "golang", model.ScoredCourse{}); err == nil {
		t.Fatal("expected error when the provider returns no candidates")
	}
}
