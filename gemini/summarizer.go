package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/leadscout"
	"google.golang.org/genai"
)

// DefaultModel is the model used for business summaries.
const DefaultModel = "gemini-2.5-flash"

// DefaultMaxInputTokens caps the page content sent per summary.
const DefaultMaxInputTokens = 4000

var _ leadscout.Summarizer = (*Summarizer)(nil)

// Summarizer implements leadscout.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client

	Model string

	// Tokens, when set, trims content to MaxInputTokens before the call.
	Tokens         leadscout.TokenCounter
	MaxInputTokens int
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(client *genai.Client) *Summarizer {
	return &Summarizer{
		client:         client,
		Model:          DefaultModel,
		MaxInputTokens: DefaultMaxInputTokens,
	}
}

// Summarize describes the business presented in content, in at most
// two sentences.
func (s *Summarizer) Summarize(ctx context.Context, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", leadscout.Errorf(leadscout.EINVALID, "content required")
	}
	if s.client == nil {
		return "", leadscout.Errorf(leadscout.EUNAVAILABLE, "gemini client not configured")
	}

	if s.Tokens != nil {
		var err error
		if content, err = FitTokens(ctx, s.Tokens, content, s.MaxInputTokens); err != nil {
			return "", err
		}
	}

	model := s.Model
	if model == "" {
		model = DefaultModel
	}
	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(content)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", leadscout.Errorf(leadscout.EINTERNAL, "gemini returned nil result")
	}

	summary := strings.TrimSpace(result.Text())
	if summary == "" {
		return "", leadscout.Errorf(leadscout.EINTERNAL, "gemini returned empty summary")
	}
	return summary, nil
}

// BuildConfig returns the GenerateContentConfig for summary calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You write short factual descriptions of local businesses for a lead list. " +
					"Use only the page content provided. Reply with at most two sentences covering what the business does and where. " +
					"If the content does not describe a business, reply with an empty string.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt wraps page content for the summary request.
func BuildUserPrompt(content string) string {
	var sb strings.Builder
	sb.WriteString("<page>\n")
	sb.WriteString(content)
	sb.WriteString("\n</page>\n\nDescribe this business.")
	return sb.String()
}

// FitTokens shortens content to roughly maxTokens tokens by cutting its
// tail in proportion to the overshoot. A non-positive maxTokens disables it.
func FitTokens(ctx context.Context, counter leadscout.TokenCounter, content string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		return content, nil
	}
	n, err := counter.CountTokens(ctx, content)
	if err != nil {
		return "", err
	}
	if n <= maxTokens {
		return content, nil
	}
	runes := []rune(content)
	keep := int(float64(len(runes)) * float64(maxTokens) / float64(n))
	return string(runes[:keep]), nil
}
