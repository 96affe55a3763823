package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientUnknownBackend(t *testing.T) {
	client, err := NewClient("bedrock", "")
	assert.Nil(t, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM backend")
}

func TestNewOllamaClientRequiresBaseURL(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "")
	client, err := NewOllamaClient("")
	assert.Nil(t, client)
	require.Error(t, err)
}

func TestOllamaBuildOptionsDefaults(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://localhost:11434")
	client, err := NewOllamaClient("test-model")
	require.NoError(t, err)

	opts := client.buildOptions(GenerationParams{})
	assert.Equal(t, float32(0.2), opts["temperature"])
	assert.Equal(t, 20, opts["top_k"])
	assert.Equal(t, float32(0.9), opts["top_p"])
	assert.Equal(t, 8192, opts["num_predict"])
	assert.NotContains(t, opts, "stop")
}

func TestOllamaBuildOptionsOverrides(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://localhost:11434")
	client, err := NewOllamaClient("test-model")
	require.NoError(t, err)

	temp := float32(0.9)
	maxTokens := 256
	opts := client.buildOptions(GenerationParams{
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		Stop:        []string{"\n"},
	})
	assert.Equal(t, float32(0.9), opts["temperature"])
	assert.Equal(t, 256, opts["num_predict"])
	assert.Equal(t, []string{"\n"}, opts["stop"])
}
