package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dossier-be/internal/apperror"
	"dossier-be/pkg/casefile"

	"github.com/google/uuid"
)

var (
	_ casefile.Extractor = (*ExtractionClient)(nil)
	_ casefile.Retriever = (*RetrievalClient)(nil)
)

type errorPayload struct {
	Detail string `json:"detail"`
}

// postJSON sends in and decodes a 2xx reply into out. Any other status is
// returned as an *apperror.ServiceError carrying the reply's detail.
func postJSON(ctx context.Context, client *http.Client, endpoint string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload errorPayload
		if json.Unmarshal(raw, &payload) != nil || payload.Detail == "" {
			payload.Detail = strings.TrimSpace(string(raw))
		}
		if payload.Detail == "" {
			payload.Detail = http.StatusText(resp.StatusCode)
		}
		return &apperror.ServiceError{Status: resp.StatusCode, Detail: payload.Detail}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &http.Client{Timeout: timeout}
}

// ExtractionClient calls a remote POST /api/process_document.
type ExtractionClient struct {
	endpoint string
	client   *http.Client
}

func NewExtractionClient(baseURL string, timeout time.Duration) *ExtractionClient {
	return &ExtractionClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/process_document",
		client:   newHTTPClient(timeout),
	}
}

type processDocumentRequest struct {
	DocumentID uuid.UUID `json:"document_id"`
}

type processDocumentResponse struct {
	FactsExtracted int `json:"facts_extracted"`
}

func (c *ExtractionClient) Extract(ctx context.Context, documentID uuid.UUID) (int, error) {
	var out processDocumentResponse
	if err := postJSON(ctx, c.client, c.endpoint, processDocumentRequest{DocumentID: documentID}, &out); err != nil {
		return 0, err
	}
	return out.FactsExtracted, nil
}

// RetrievalClient calls a remote POST /api/chat.
type RetrievalClient struct {
	endpoint string
	client   *http.Client
}

func NewRetrievalClient(baseURL string, timeout time.Duration) *RetrievalClient {
	return &RetrievalClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/chat",
		client:   newHTTPClient(timeout),
	}
}

type chatRequest struct {
	Question  string    `json:"question"`
	DossierID uuid.UUID `json:"dossier_id"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func (c *RetrievalClient) Answer(ctx context.Context, question string, caseFileID uuid.UUID) (string, error) {
	var out chatResponse
	if err := postJSON(ctx, c.client, c.endpoint, chatRequest{Question: question, DossierID: caseFileID}, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}
