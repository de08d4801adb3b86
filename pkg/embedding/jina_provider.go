package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const jinaEmbeddingsURL = "https://api.jina.ai/v1/embeddings"

// JinaProvider embeds through the Jina AI API. jina-embeddings-v2-base-en
// is 768 wide, like the other providers.
type JinaProvider struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewJinaProvider(apiKey, baseURL, model string) (*JinaProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("jina embedding provider needs an api key")
	}
	if baseURL == "" {
		baseURL = jinaEmbeddingsURL
	}
	if model == "" {
		model = "jina-embeddings-v2-base-en"
	}
	return &JinaProvider{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type jinaEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
	Task  string   `json:"task,omitempty"`
}

type jinaEmbeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Detail string `json:"detail,omitempty"`
}

// jinaTask maps the Gemini task names; v2 models ignore the field.
func jinaTask(taskType string) string {
	switch taskType {
	case TaskRetrievalQuery:
		return "retrieval.query"
	case TaskRetrievalDocument:
		return "retrieval.passage"
	}
	return ""
}

func (p *JinaProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	body, err := json.Marshal(jinaEmbeddingRequest{
		Model: p.Model,
		Input: []string{text},
		Task:  jinaTask(taskType),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jina request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jina api error (status %d): %s", resp.StatusCode, string(raw))
	}

	var out jinaEmbeddingResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode jina response: %w", err)
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embeddings from jina api")
	}
	return normalizeVector(out.Data[0].Embedding), nil
}
