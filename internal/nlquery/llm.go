package nlquery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"trafo-matcher/internal/metrics"
)

// ErrLLMUnavailable: языковая модель не ответила или ответила ошибкой.
var ErrLLMUnavailable = errors.New("language model unavailable")

// Config: подключение к OpenAI-совместимому API (Ollama отдаёт его на /v1).
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client: тонкая обёртка над go-openai: один промпт → один ответ.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	key := cfg.APIKey
	if key == "" {
		// Ollama ключ не проверяет, но заголовок Authorization ждут прокси
		key = "ollama"
	}
	clientCfg := openai.DefaultConfig(key)
	clientCfg.BaseURL = apiBase(cfg.BaseURL)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: timeout,
		logger:  logger.With().Str("component", "llm").Str("model", cfg.Model).Logger(),
	}
}

// apiBase: "http://localhost:11434" → "http://localhost:11434/v1".
func apiBase(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if strings.HasSuffix(u, "/v1") {
		return u
	}
	return u + "/v1"
}

func (c *Client) Model() string { return c.model }

// Complete: один запрос chat completion, текст первого варианта ответа.
func (c *Client) Complete(ctx context.Context, op, prompt string, temperature float32, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	metrics.LLMRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(op, "error").Inc()
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(op, "error").Inc()
		return "", fmt.Errorf("empty completion: %w", ErrLLMUnavailable)
	}
	metrics.LLMRequestsTotal.WithLabelValues(op, "success").Inc()
	return resp.Choices[0].Message.Content, nil
}

// Models: список моделей; заодно проверка доступности.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	list, err := c.client.ListModels(ctx)
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues("models", "error").Inc()
		return nil, parseAPIError(err)
	}
	metrics.LLMRequestsTotal.WithLabelValues("models", "success").Inc()
	out := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		out = append(out, m.ID)
	}
	return out, nil
}

func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("llm API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), ErrLLMUnavailable)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("llm API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, ErrLLMUnavailable)
	}
	return fmt.Errorf("llm request failed: %v: %w", err, ErrLLMUnavailable)
}
