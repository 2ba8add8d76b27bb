package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotConfigured = errors.New("llm is not configured")
	ErrEmptyResponse = errors.New("llm returned an empty response")
	ErrRequestFailed = errors.New("llm request failed")
)

const (
	defaultTimeout   = 60 * time.Second
	defaultBackoff   = 500 * time.Millisecond
	defaultMaxTokens = 1500
)

// Completer turns a system and a user prompt into generated text
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// LLM talks to an OpenAI compatible chat completions endpoint
type LLM struct {
	Logger      *logrus.Logger
	APIKey      string
	Model       string
	Endpoint    string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int
	Temperature float64
	Backoff     time.Duration
	HTTPClient  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// retryableError marks failures worth another attempt
type retryableError struct{ err error }

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

func (llm *LLM) Complete(ctx context.Context, system, user string) (string, error) {
	if llm.APIKey == "" || llm.Endpoint == "" {
		return "", ErrNotConfigured
	}

	if _, ok := ctx.Deadline(); !ok {
		timeout := llm.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(system) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	maxTokens := llm.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := llm.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	body, err := json.Marshal(chatRequest{
		Model:       llm.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := llm.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	var lastErr error
	for attempt := 0; attempt <= llm.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := backoff * time.Duration(1<<(attempt-1))
			llm.logger().WithFields(logrus.Fields{"attempt": attempt, "wait": wait}).Warnf("Retrying llm request: %v", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrRequestFailed, ctx.Err())
			}
		}

		content, err := llm.do(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err

		var retry retryableError
		if !errors.As(err, &retry) || ctx.Err() != nil {
			break
		}
	}

	llm.logger().Errorf("LLM request failed: %v", lastErr)
	return "", lastErr
}

func (llm *LLM) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, llm.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+llm.APIKey)

	client := llm.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", retryableError{fmt.Errorf("%w: %v", ErrRequestFailed, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", retryableError{fmt.Errorf("%w: reading response: %v", ErrRequestFailed, err)}
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return "", retryableError{fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		llm.logger().Debugf("Raw response: %s", string(raw))
		return "", fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var result chatResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		llm.logger().Debugf("Raw response: %s", string(raw))
		return "", fmt.Errorf("%w: invalid response format: %v", ErrRequestFailed, err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrRequestFailed, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

func (llm *LLM) logger() *logrus.Logger {
	if llm.Logger == nil {
		return logrus.StandardLogger()
	}
	return llm.Logger
}
