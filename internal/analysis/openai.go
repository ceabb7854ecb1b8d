package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
)

const systemPrompt = `You are an analyst reviewing tender and RFP documents.
Given the extracted text of a document, respond with a single JSON object with
the keys "requirements", "risks", "clarifications" and "outline".
Each requirement has "level" (MUST, SHOULD or INFO) and "text".
Each risk has "severity" (high, medium or low), "title" and "detail".
Each clarification is a question string.
Each outline entry has "title" and "bullets".
Quote requirement text as close to the source wording as possible.
Respond with JSON only, no commentary.`

// maxPromptChars caps document text sent to the model. Longer documents are
// truncated head-first; the opening sections of a tender carry most of the
// binding requirements.
const maxPromptChars = 48_000

type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

var _ Analyzer = (*OpenAIAnalyzer)(nil)

func NewOpenAIAnalyzer(apiKey, model string) (*OpenAIAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("analyzer api key not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIAnalyzer{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, documentName, text string) (*api.Analysis, error) {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Document: %s\n\n%s", documentName, text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analysis call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("analysis returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	zap.S().Named("analysis").Debugf("model finished with reason %s", resp.Choices[0].FinishReason)

	return Normalize([]byte(content))
}
