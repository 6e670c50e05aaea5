package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatClientAppliesShortReplyDefaults(t *testing.T) {
	c := newChatClient(nil, "OpenAI", "gpt-4o-mini", 0, 0)
	assert.Equal(t, fallbackTemperature, c.temperature)
	assert.Equal(t, fallbackMaxTokens, c.maxTokens)

	c = newChatClient(nil, "OpenAI", "gpt-4o-mini", 0.2, 120)
	assert.Equal(t, float32(0.2), c.temperature)
	assert.Equal(t, 120, c.maxTokens)
}

func TestProvidersShareTheSameCaps(t *testing.T) {
	oa := NewOpenAIProvider("key", "", 0, 0)
	ds := NewDeepSeekProvider("key", "", 0, 0)

	assert.Equal(t, "OpenAI", oa.GetProviderName())
	assert.Equal(t, "DeepSeek", ds.GetProviderName())
	assert.Equal(t, oa.maxTokens, ds.maxTokens)
	assert.Equal(t, oa.temperature, ds.temperature)
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	_, err := NewProvider(&ProviderConfig{Type: ProviderOpenAI})
	assert.Error(t, err)

	_, err = NewProvider(&ProviderConfig{Type: ProviderDeepSeek})
	assert.Error(t, err)

	_, err = NewProvider(&ProviderConfig{Type: "mistral"})
	assert.Error(t, err)
}

func TestLoadProviderFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "deepseek")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("LLM_MAX_TOKENS", "")

	cfg, err := LoadProviderFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ProviderDeepSeek, cfg.Type)
	assert.Equal(t, "deepseek-chat", cfg.Model)
	assert.Equal(t, fallbackMaxTokens, cfg.MaxTokens)

	t.Setenv("LLM_MAX_TOKENS", "150")
	cfg, err = LoadProviderFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 150, cfg.MaxTokens)
}
