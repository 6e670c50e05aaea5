package llm

import (
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type DeepSeekProvider struct {
	chatClient
}

func NewDeepSeekProvider(apiKey string, model string, temperature float32, maxTokens int) *DeepSeekProvider {
	if model == "" {
		model = "deepseek-chat"
	}

	// DeepSeek exposes an OpenAI-compatible API behind a custom base URL.
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = "https://api.deepseek.com"
	config.HTTPClient = &http.Client{
		Timeout: 60 * time.Second,
	}

	return &DeepSeekProvider{
		chatClient: newChatClient(openai.NewClientWithConfig(config), "DeepSeek", model, temperature, maxTokens),
	}
}
