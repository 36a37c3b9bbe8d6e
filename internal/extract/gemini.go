package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

const extractionPrompt = `You extract structured fields from a patient message in a medical
appointment scheduling chat. Reply with a single JSON object and nothing else, using these
keys when present in the message: "first_name", "dob" (MM/DD/YYYY), "email", "phone",
"doctor" (preferred doctor name). Omit keys that are not in the message.`

// GeminiExtractor delegates entity extraction to Gemini and falls back to the
// rule-based extractor when the remote call fails or returns garbage. The
// conversation never sees a remote failure.
type GeminiExtractor struct {
	client   *genai.Client
	modelID  string
	fallback Extractor
	logger   *logging.Logger
}

// NewGeminiExtractor creates an LLM-backed extractor.
func NewGeminiExtractor(ctx context.Context, apiKey, modelID string, fallback Extractor, logger *logging.Logger) (*GeminiExtractor, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("extract: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	if fallback == nil {
		fallback = NewRuleExtractor()
	}
	if logger == nil {
		logger = logging.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("extract: failed to create gemini client: %w", err)
	}

	return &GeminiExtractor{
		client:   client,
		modelID:  modelID,
		fallback: fallback,
		logger:   logger,
	}, nil
}

var _ Extractor = (*GeminiExtractor)(nil)

// Extract asks the model for a JSON field set, degrading to rule-based
// extraction on any failure.
func (x *GeminiExtractor) Extract(ctx context.Context, text string, hint Hint) Entities {
	model := x.client.GenerativeModel(x.modelID)
	model.SetTemperature(0)
	model.SystemInstruction = genai.NewUserContent(genai.Text(extractionPrompt))

	resp, err := model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		x.logger.Warn("gemini extraction failed, using rule extractor", "error", err)
		return x.fallback.Extract(ctx, text, hint)
	}

	raw := collectText(resp)
	ents, err := parseEntityJSON(raw)
	if err != nil {
		x.logger.Warn("gemini returned unparseable entities, using rule extractor", "error", err)
		return x.fallback.Extract(ctx, text, hint)
	}

	// The model has no notion of conversational hints; apply the same
	// bare-word rules the deterministic extractor would.
	if ents.IsEmpty() {
		return x.fallback.Extract(ctx, text, hint)
	}
	return ents
}

func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

// parseEntityJSON tolerates the model wrapping its JSON in a code fence.
func parseEntityJSON(raw string) (Entities, error) {
	raw = strings.TrimSpace(raw)
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	var ents Entities
	if err := json.Unmarshal([]byte(raw), &ents); err != nil {
		return Entities{}, fmt.Errorf("extract: decode entities: %w", err)
	}
	ents.DOB = strings.TrimSpace(ents.DOB)
	ents.Email = strings.ToLower(strings.TrimSpace(ents.Email))
	ents.Phone = strings.TrimSpace(ents.Phone)
	ents.FirstName = strings.TrimSpace(ents.FirstName)
	ents.Doctor = strings.TrimSpace(ents.Doctor)
	return ents, nil
}
