package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// LangChainProvider routes completions through the langchaingo OpenAI adapter
// instead of calling the API client directly.
type LangChainProvider struct {
	model   llms.Model
	name    string
	modelID string
}

// NewLangChainProvider builds a langchaingo OpenAI model for the given key.
func NewLangChainProvider(apiKey, model, baseURL string, timeout time.Duration) (*LangChainProvider, error) {
	opts := []lcopenai.Option{
		lcopenai.WithToken(apiKey),
		lcopenai.WithModel(model),
		lcopenai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(baseURL))
	}

	client, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating langchain openai client: %w", err)
	}
	return NewLangChainProviderWithModel(client, model), nil
}

// NewLangChainProviderWithModel wraps an existing langchaingo model.
func NewLangChainProviderWithModel(model llms.Model, modelID string) *LangChainProvider {
	return &LangChainProvider{model: model, name: "langchain", modelID: modelID}
}

func (p *LangChainProvider) Name() string {
	return p.name
}

func (p *LangChainProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	messages := make([]llms.MessageContent, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, llms.TextParts(langChainRole(msg.Role), msg.Content))
	}

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}

	resp, err := p.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, &ProviderError{Provider: p.name, Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: p.name, Err: errors.New("no content choices returned")}
	}

	choice := resp.Choices[0]
	model := req.Model
	if model == "" {
		model = p.modelID
	}

	return &CompletionResponse{
		Content:      choice.Content,
		InputTokens:  intInfo(choice.GenerationInfo, "PromptTokens"),
		OutputTokens: intInfo(choice.GenerationInfo, "CompletionTokens"),
		Model:        model,
		FinishReason: choice.StopReason,
	}, nil
}

func langChainRole(r Role) llms.ChatMessageType {
	switch r {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
