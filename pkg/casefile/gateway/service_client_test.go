package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dossier-be/internal/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionClient(t *testing.T) {
	docID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/process_document", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, docID.String(), req["document_id"])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","facts_extracted":3}`))
	}))
	defer srv.Close()

	n, err := NewExtractionClient(srv.URL+"/", time.Second).Extract(context.Background(), docID)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestExtractionClientServiceError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"detail payload", http.StatusInternalServerError, `{"detail":"parse error"}`, "parse error"},
		{"plain body", http.StatusBadGateway, "upstream down", "upstream down"},
		{"empty body", http.StatusServiceUnavailable, "", "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewExtractionClient(srv.URL, time.Second).Extract(context.Background(), uuid.New())

			var se *apperror.ServiceError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.wantDetail, apperror.Detail(err))
		})
	}
}

func TestExtractionClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewExtractionClient(url, time.Second).Extract(context.Background(), uuid.New())

	require.Error(t, err)
	var se *apperror.ServiceError
	assert.False(t, errors.As(err, &se))
}

func TestRetrievalClient(t *testing.T) {
	caseID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req struct {
			Question  string `json:"question"`
			DossierID string `json:"dossier_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is the claim amount?", req.Question)
		assert.Equal(t, caseID.String(), req.DossierID)
		w.Write([]byte(`{"answer":"EUR 48,000."}`))
	}))
	defer srv.Close()

	answer, err := NewRetrievalClient(srv.URL, time.Second).Answer(context.Background(), "What is the claim amount?", caseID)

	require.NoError(t, err)
	assert.Equal(t, "EUR 48,000.", answer)
}

func TestRetrievalClientBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewRetrievalClient(srv.URL, time.Second).Answer(context.Background(), "q", uuid.New())
	assert.Error(t, err)
}
