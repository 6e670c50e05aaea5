package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Fallback replies are a couple of conversational sentences, never an
// essay. These caps keep every provider aligned with that contract and
// with the short-reply instruction in the fallback system prompt.
const (
	fallbackTemperature float32 = 0.6
	fallbackMaxTokens           = 300
)

// chatClient holds the system+user completion exchange shared by every
// OpenAI-compatible backend. Providers embed it and only differ in how
// they build the underlying client.
type chatClient struct {
	client      *openai.Client
	name        string
	model       string
	temperature float32
	maxTokens   int
}

func newChatClient(client *openai.Client, name, model string, temperature float32, maxTokens int) chatClient {
	if temperature == 0 {
		temperature = fallbackTemperature
	}
	if maxTokens == 0 {
		maxTokens = fallbackMaxTokens
	}
	return chatClient{
		client:      client,
		name:        name,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (c *chatClient) GetProviderName() string {
	return c.name
}

func (c *chatClient) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})

	if err != nil {
		return "", fmt.Errorf("%s error: %w", strings.ToLower(c.name), err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", c.name)
	}

	return resp.Choices[0].Message.Content, nil
}
