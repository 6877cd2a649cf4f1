package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// EmbeddingClient turns text into a fixed-length vector via the embedding
// provider. The provider is a black box behind this interface.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type geminiEmbeddingClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  zerolog.Logger
}

// NewGeminiEmbeddingClient creates an EmbeddingClient backed by the Gemini
// embedContent REST endpoint.
func NewGeminiEmbeddingClient(baseURL, apiKey, model string, logger zerolog.Logger) EmbeddingClient {
	return &geminiEmbeddingClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("service", "EmbeddingClient").Logger(),
	}
}

// geminiPart and geminiContent mirror the Gemini REST wire format.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type embedContentRequest struct {
	Content geminiContent `json:"content"`
}

type embedContentResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (c *geminiEmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := embedContentRequest{
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request to embedding provider: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			c.logger.Warn().Err(readErr).Int("status_code", resp.StatusCode).Msg("Failed to read error body from embedding provider")
			return nil, fmt.Errorf("embedding provider returned status %d", resp.StatusCode)
		}
		c.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("error_body", string(bodyBytes)).
			Msg("Embedding provider returned error")
		return nil, fmt.Errorf("embedding provider returned status %d", resp.StatusCode)
	}

	var embedResp embedContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(embedResp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding provider returned an empty embedding")
	}

	return embedResp.Embedding.Values, nil
}
