// ABOUTME: OpenAI client for embeddings and answer generation
// ABOUTME: Wraps go-openai with per-call timeouts and exponential-backoff retries
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/portfolio-rag/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for answer generation
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration for an API key
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
	}
}

// Client wraps the OpenAI API client with retry logic
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates a new OpenAI client. Fails with ErrNotConfigured when the
// API key is missing so the condition surfaces at startup, not mid-query.
func NewClient(config *ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if config.ChatModel == "" {
		config.ChatModel = DefaultChatModel
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = DefaultEmbeddingModel
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		client:         openai.NewClient(config.APIKey),
		chatModel:      config.ChatModel,
		embeddingModel: config.EmbeddingModel,
		timeout:        config.Timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// EmbeddingModel returns the configured embedding model name
func (c *Client) EmbeddingModel() string { return c.embeddingModel }

// ChatModel returns the configured chat model name
func (c *Client) ChatModel() string { return c.chatModel }

// CreateEmbedding generates an embedding vector for text via the OpenAI API.
// Retries transient failures with backoff; respects ctx cancellation between
// attempts so an abandoned query stops burning upstream calls.
func (c *Client) CreateEmbedding(ctx context.Context, text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrUpstream, ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: openai.EmbeddingModel(c.embeddingModel),
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		// go-openai returns float32; storage and math run on float64
		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}
		return embedding64, nil
	}

	return nil, fmt.Errorf("%w: embedding failed after %d attempts: %w", ErrUpstream, c.maxRetries+1, lastErr)
}

// Completion is the result of one generation call
type Completion struct {
	Answer     string
	TokensUsed int
}

// CreateCompletion generates an answer from a system preamble and user message.
// maxTokens bounds the output length and temperature the sampling spread.
func (c *Client) CreateCompletion(ctx context.Context, system, user string, maxTokens int, temperature float32) (*Completion, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrUpstream, ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		return &Completion{
			Answer:     resp.Choices[0].Message.Content,
			TokensUsed: resp.Usage.TotalTokens,
		}, nil
	}

	return nil, fmt.Errorf("%w: completion failed after %d attempts: %w", ErrUpstream, c.maxRetries+1, lastErr)
}
