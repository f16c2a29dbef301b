// Package extractor turns free-text invoice descriptions into structured
// fields with the Gemini generative language API.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/middleware"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-1.5-flash"

// DefaultEndpoint is the Generative Language API base URL.
const DefaultEndpoint = "https://generativelanguage.googleapis.com/"

// Config selects the model and credential. APIKey wins over AccessToken.
type Config struct {
	APIKey      string
	AccessToken string
	Model       string
	Endpoint    string // overrides the API base URL, mostly for tests
}

// ErrNotConfigured is returned by NewGeminiExtractor when no credential is set.
var ErrNotConfigured = errors.New("gemini extractor requires an API key or access token")

type GeminiExtractor struct {
	client   *http.Client
	endpoint string
	model    string
}

var _ portssvc.StructuredExtractor = (*GeminiExtractor)(nil)

// NewGeminiExtractor builds an extractor from cfg. Extra client options are
// appended after the ones derived from cfg.
func NewGeminiExtractor(ctx context.Context, cfg Config, extra ...option.ClientOption) (*GeminiExtractor, error) {
	var opts []option.ClientOption
	switch {
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	case cfg.AccessToken != "":
		opts = append(opts, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})))
	default:
		return nil, ErrNotConfigured
	}
	opts = append(opts, extra...)

	client, _, err := htransport.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create generative language client: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	model = strings.TrimPrefix(model, "models/")
	return &GeminiExtractor{client: client, endpoint: endpoint, model: model}, nil
}

const systemPrompt = `You are an invoice data extraction assistant. Follow these rules:
- If you can't extract clientName or amount with reasonable confidence, return null
- Remove currency symbols from amount (convert $500 to 500)
- If no description is clear, use "Professional services"
- Only include dueDate if a specific date is mentioned
- Be liberal with client names - accept first names, full names, or company names
- Return names and descriptions in their original case - capitalization will be handled separately
- Common amount formats: $500, 500 dollars, five hundred, etc.`

const fieldSchema = `Extract the following information from the text:

- clientName: The person or company name (required)
- amount: The monetary amount as a number (required, no currency symbols)
- description: Description of work/services (required)
- dueDate: Any mentioned due date in ISO format YYYY-MM-DD (optional, only if explicitly mentioned)
- confidence: Your confidence level from 0 to 1 (1 being very confident)

Respond with ONLY a JSON object containing the extracted data. If any field cannot be determined, use null.`

func buildPrompt(input string) string {
	return fmt.Sprintf("%s\n\nText: %q", fieldSchema, input)
}

// Request and response bodies of models.generateContent, reduced to the
// fields the extractor reads or sets.
type part struct {
	Text string `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateContentRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

// ExtractInvoice asks the model for invoice fields. A nil result means the
// model could not find an invoice in the text.
func (g *GeminiExtractor) ExtractInvoice(ctx context.Context, input string) (*domain.ParsedInvoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	body, err := json.Marshal(generateContentRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: buildPrompt(input)}}}},
		GenerationConfig:  &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("encode generate content request: %w", err)
	}

	target := g.endpoint + "v1beta/models/" + url.PathEscape(g.model) + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate content request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	defer googleapi.CloseBody(resp)
	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	var out generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode generate content response: %w", err)
	}

	text := responseText(&out)
	if text == "" {
		logger.Warn("Gemini returned no text", slog.String("model", g.model))
		return nil, nil
	}

	parsed, err := decodeInvoice(text)
	if err != nil {
		logger.Warn("Could not decode Gemini response", slog.String("error", err.Error()))
		return nil, nil
	}
	return parsed, nil
}

func responseText(resp *generateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String())
}

// wireInvoice mirrors the JSON the model is asked for. Every field may be null.
type wireInvoice struct {
	ClientName  *string         `json:"clientName"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	DueDate     *string         `json:"dueDate"`
	Confidence  *float64        `json:"confidence"`
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// decodeInvoice parses the model output, falling back to the first JSON
// object embedded in surrounding prose.
func decodeInvoice(text string) (*domain.ParsedInvoice, error) {
	if text == "null" {
		return nil, nil
	}
	var w *wireInvoice
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		match := jsonObject.FindString(text)
		if match == "" {
			return nil, fmt.Errorf("no JSON object in response: %w", err)
		}
		if err := json.Unmarshal([]byte(match), &w); err != nil {
			return nil, fmt.Errorf("invalid JSON object in response: %w", err)
		}
	}
	if w == nil {
		return nil, nil
	}
	return &domain.ParsedInvoice{
		ClientName:  deref(w.ClientName),
		Amount:      w.Amount,
		Description: deref(w.Description),
		DueDate:     deref(w.DueDate),
		Confidence:  derefFloat(w.Confidence),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
