package services

import (
	"context"

	"aidagent_go_backend/internal/apperrors"

	"github.com/sashabaranov/go-openai"
)

// CompletionMessage is a role-tagged chunk of model context.
type CompletionMessage struct {
	Role    string
	Content string
}

// CompletionClient is the completion gateway boundary. The model identifier
// and sampling parameters are fixed configuration, never user-supplied.
type CompletionClient interface {
	Complete(ctx context.Context, messages []CompletionMessage) (string, error)
}

// OpenAICompletionService implements CompletionClient against the OpenAI
// chat completions API.
type OpenAICompletionService struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAICompletionService(apiKey, model string, maxTokens int, temperature float32) *OpenAICompletionService {
	return &OpenAICompletionService{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Complete returns the first completion's text. An empty choice list is not
// an error; it yields an empty string and the caller substitutes its
// fallback text.
func (s *OpenAICompletionService) Complete(ctx context.Context, messages []CompletionMessage) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}
	for _, msg := range messages {
		request.Messages = append(request.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	response, err := s.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", apperrors.Gateway(err)
	}
	if len(response.Choices) == 0 {
		return "", nil
	}
	return response.Choices[0].Message.Content, nil
}
