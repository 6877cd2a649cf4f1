package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"coursehub/internal/model"

	"github.com/rs/zerolog"
)

// ExplanationClient asks the LLM provider to relate search results back to
// the user's query, either as one combined summary or per course.
type ExplanationClient interface {
	Summarize(ctx context.Context, query string, courses []model.ScoredCourse) (string, error)
	Explain(ctx context.Context, query string, course model.ScoredCourse) (string, error)
}

type geminiExplanationClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  zerolog.Logger
}

// NewGeminiExplanationClient creates an ExplanationClient backed by the
// Gemini generateContent REST endpoint.
func NewGeminiExplanationClient(baseURL, apiKey, model string, logger zerolog.Logger) ExplanationClient {
	return &geminiExplanationClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger.With().Str("service", "ExplanationClient").Logger(),
	}
}

func (c *geminiExplanationClient) Summarize(ctx context.Context, query string, courses []model.ScoredCourse) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A user searched a course catalog for: %q\n\n", query)
	sb.WriteString("These courses matched, ordered by relevance:\n")
	for i, course := range courses {
		fmt.Fprintf(&sb, "%d. %s: %s\n", i+1, course.Title, course.Description)
	}
	sb.WriteString("\nIn a short paragraph, summarize how these courses relate to the search and which to start with.")

	return c.generate(ctx, sb.String())
}

func (c *geminiExplanationClient) Explain(ctx context.Context, query string, course model.ScoredCourse) (string, error) {
	prompt := fmt.Sprintf(
		"A user searched a course catalog for: %q\n\nCourse: %s\nDescription: %s\n\nIn one or two sentences, explain why this course is relevant to the search.",
		query, course.Title, course.Description,
	)
	return c.generate(ctx, prompt)
}

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *geminiExplanationClient) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateContentRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request body: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request to LLM provider: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			c.logger.Warn().Err(readErr).Int("status_code", resp.StatusCode).Msg("Failed to read error body from LLM provider")
			return "", fmt.Errorf("llm provider returned status %d", resp.StatusCode)
		}
		c.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("error_body", string(bodyBytes)).
			Msg("LLM provider returned error")
		return "", fmt.Errorf("llm provider returned status %d", resp.StatusCode)
	}

	var genResp generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("llm provider returned no candidates")
	}

	return strings.TrimSpace(genResp.Candidates[0].Content.Parts[0].Text), nil
}
