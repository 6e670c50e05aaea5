package llm

import (
	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	chatClient
}

func NewOpenAIProvider(apiKey string, model string, temperature float32, maxTokens int) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIProvider{
		chatClient: newChatClient(openai.NewClient(apiKey), "OpenAI", model, temperature, maxTokens),
	}
}
