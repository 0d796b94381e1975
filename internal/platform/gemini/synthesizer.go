package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/mattdotroberts/on-this-day/internal/config"
	"github.com/mattdotroberts/on-this-day/internal/domain"
	"github.com/mattdotroberts/on-this-day/internal/generation"
	"github.com/mattdotroberts/on-this-day/internal/planner"
)

// modelCaller is the slice of the genai client the synthesizer uses,
// extracted so tests can substitute a fake without network access.
type modelCaller interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		cfg *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Synthesizer implements generation.Synthesizer using the Gemini API.
type Synthesizer struct {
	logger *slog.Logger
	models modelCaller

	model      string
	coverModel string

	// nowYear supplies the current calendar year for age calculation.
	nowYear func() int
}

// NewSynthesizer creates a Synthesizer from the LLM configuration.
func NewSynthesizer(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Synthesizer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.CoverModelName == "" {
		return nil, fmt.Errorf("%w: cover model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Synthesizer{
		logger:     logger.With("component", "gemini_synthesizer"),
		models:     client.Models,
		model:      cfg.ModelName,
		coverModel: cfg.CoverModelName,
		nowYear:    func() int { return time.Now().UTC().Year() },
	}, nil
}

// entrySchema constrains the model to one JSON object per calendar day.
func entrySchema(monthName string) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"day":          {Type: genai.TypeString, Description: fmt.Sprintf("e.g. %s 1", monthName)},
				"year":         {Type: genai.TypeString, Description: "The year this event happened, e.g. 1923 or 44 BC"},
				"headline":     {Type: genai.TypeString},
				"historyEvent": {Type: genai.TypeString, Description: "Long narrative text, approx 200 words."},
				"nameLink":     {Type: genai.TypeString, Nullable: genai.Ptr(true)},
				"whyIncluded":  {Type: genai.TypeString},
				"sources": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title": {Type: genai.TypeString},
							"url":   {Type: genai.TypeString},
						},
					},
				},
			},
			Required: []string{"day", "year", "headline", "historyEvent", "whyIncluded"},
		},
	}
}

// SynthesizeMonth requests exactly plan.Days entries for one month.
func (s *Synthesizer) SynthesizeMonth(
	ctx context.Context,
	prefs domain.Prefs,
	plan planner.MonthPlan,
	previous []domain.Entry,
) ([]domain.Entry, error) {
	age := s.nowYear() - prefs.BirthYear
	prompt := monthPrompt(prefs, plan, previous, age)

	s.logger.InfoContext(ctx, "requesting month entries",
		"model", s.model,
		"month", plan.Name,
		"days", plan.Days,
		"prompt_length", len(prompt))

	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		ResponseSchema:    entrySchema(plan.Name),
		SystemInstruction: genai.NewContentFromText(systemInstruction(prefs.Name), genai.RoleUser),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	var entries []domain.Entry
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}

	if err := validateEntries(entries, plan); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "month entries synthesized",
		"month", plan.Name,
		"entry_count", len(entries))

	return entries, nil
}

// SynthesizeCover requests a cover illustration and returns it as a data
// URL, or "" when the model produced no image part.
func (s *Synthesizer) SynthesizeCover(ctx context.Context, prefs domain.Prefs) (string, error) {
	s.logger.InfoContext(ctx, "requesting cover image",
		"model", s.coverModel,
		"cover_style", prefs.CoverStyle)

	resp, err := s.models.GenerateContent(ctx, s.coverModel, genai.Text(coverPrompt(prefs)), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
				return fmt.Sprintf("data:%s;base64,%s", part.InlineData.MIMEType, encoded), nil
			}
		}
	}

	s.logger.WarnContext(ctx, "cover response contained no image part")
	return "", nil
}

// responseText extracts the text payload, mapping the provider's failure
// modes onto the package's error taxonomy.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	text := ""
	for _, part := range cand.Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", fmt.Errorf("%w: no text in response", generation.ErrInvalidResponse)
	}
	return text, nil
}

// validateEntries enforces the exactly-one-entry-per-day contract. A short
// or hollow response is a hard failure, never a silent truncation.
func validateEntries(entries []domain.Entry, plan planner.MonthPlan) error {
	if len(entries) != plan.Days {
		return fmt.Errorf("%w: expected %d entries for %s, got %d",
			generation.ErrInvalidResponse, plan.Days, plan.Name, len(entries))
	}

	for i, e := range entries {
		switch {
		case e.Day == "":
			return fmt.Errorf("%w: entry %d missing day", generation.ErrInvalidResponse, i)
		case e.Year == "":
			return fmt.Errorf("%w: entry %d missing year", generation.ErrInvalidResponse, i)
		case e.Headline == "":
			return fmt.Errorf("%w: entry %d missing headline", generation.ErrInvalidResponse, i)
		case e.HistoryEvent == "":
			return fmt.Errorf("%w: entry %d missing history event", generation.ErrInvalidResponse, i)
		case e.WhyIncluded == "":
			return fmt.Errorf("%w: entry %d missing rationale", generation.ErrInvalidResponse, i)
		}
	}
	return nil
}
