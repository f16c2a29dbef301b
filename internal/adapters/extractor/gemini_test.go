package extractor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestDecodeInvoice(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantNil    bool
		wantErr    bool
		wantClient string
		wantAmount string
		wantDue    string
	}{
		{
			name:       "plain object",
			text:       `{"clientName":"acme","amount":500,"description":"logo","dueDate":null,"confidence":0.9}`,
			wantClient: "acme",
			wantAmount: "500",
		},
		{
			name:       "object wrapped in prose",
			text:       "Here you go:\n```json\n{\"clientName\":\"Bob\",\"amount\":\"42.50\",\"description\":\"mowing\",\"dueDate\":\"2025-07-01\"}\n```",
			wantClient: "Bob",
			wantAmount: "42.5",
			wantDue:    "2025-07-01",
		},
		{
			name:    "explicit null",
			text:    "null",
			wantNil: true,
		},
		{
			name:    "no json at all",
			text:    "I could not find an invoice.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeInvoice(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantClient, got.ClientName)
			assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(got.Amount), "amount %s", got.Amount)
			assert.Equal(t, tt.wantDue, got.DueDate)
		})
	}
}

func TestNewGeminiExtractor_RequiresCredential(t *testing.T) {
	_, err := NewGeminiExtractor(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestExtractInvoice_CallsGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"clientName\":\"Acme\",\"amount\":1200,\"description\":\"website\",\"confidence\":0.8}"}]}}]}`)
	}))
	defer srv.Close()

	ext, err := NewGeminiExtractor(context.Background(), Config{APIKey: "test-key", Endpoint: srv.URL})
	require.NoError(t, err)

	got, err := ext.ExtractInvoice(context.Background(), "bill acme 1200 for the website")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.ClientName)
	assert.True(t, decimal.NewFromInt(1200).Equal(got.Amount))
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
	assert.Equal(t, "/v1beta/models/"+DefaultModel+":generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	genCfg, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
}

func TestExtractInvoice_EmptyCandidates(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	ext, err := NewGeminiExtractor(context.Background(), Config{AccessToken: "token", Endpoint: srv.URL + "/"})
	require.NoError(t, err)

	got, err := ext.ExtractInvoice(context.Background(), "nothing useful here")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "Bearer token", gotAuth)
}

func TestExtractInvoice_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer srv.Close()

	ext, err := NewGeminiExtractor(context.Background(), Config{APIKey: "k", Model: "models/gemini-pro", Endpoint: srv.URL + "/"})
	require.NoError(t, err)

	got, err := ext.ExtractInvoice(context.Background(), "bill bob 20 dollars")

	assert.Nil(t, got)
	var apiErr *googleapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Code)
	assert.Contains(t, apiErr.Message, "quota exceeded")
}
