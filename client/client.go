// Package client is the calling side of the generation pipeline: it
// posts prompts to the service's generate endpoint, retries transient
// failures with exponential backoff, and normalizes the outcome into a
// (text, error) pair. Callers check the error; nothing escapes as a
// panic or partial result.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"stratgen/generator"
	"stratgen/progress"
)

const (
	// MaxRetries is the attempt budget for one logical generation.
	MaxRetries = 3

	// DefaultInitialDelay is the backoff base: attempt i waits
	// InitialDelay * 2^(i-1) plus up to 25% jitter.
	DefaultInitialDelay = 2 * time.Second

	maxErrorBodyBytes = 4 << 10
)

// User-facing messages returned after the retry budget is exhausted.
const (
	overloadedMessage = "The AI service is currently experiencing high traffic. Please try again in a few moments."
	busyMessage       = "The AI service is currently busy. Please wait a moment and try again."
)

// Client calls the generation endpoints with retries.
type Client struct {
	BaseURL      string
	HTTPClient   *http.Client
	MaxRetries   int
	InitialDelay time.Duration

	logger *zap.Logger
}

// New builds a client with the production retry policy.
func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		HTTPClient:   &http.Client{},
		MaxRetries:   MaxRetries,
		InitialDelay: DefaultInitialDelay,
		logger:       logger,
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
	Text      string `json:"text"`
	Error     string `json:"error"`
}

// Generate obtains generated text for a prompt, masking transient
// provider failures. It issues at most MaxRetries sequential attempts,
// sleeping the backoff delay between them, and returns either the text
// or a single resolved error. Every failure kind is retried; the
// overload classification only selects the final user-facing message.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", generator.NewGenError(generator.ErrInvalidRequest, "prompt is required")
	}

	var lastErr error
	for attempt := 1; attempt <= c.MaxRetries; attempt++ {
		c.logger.Info("generation attempt",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", c.MaxRetries))

		text, err := c.doGenerate(ctx, prompt)
		if err == nil {
			c.logger.Info("generation succeeded", zap.Int("attempt", attempt))
			return text, nil
		}
		lastErr = err
		c.logger.Warn("generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < c.MaxRetries {
			if err := c.wait(ctx, c.backoff(attempt)); err != nil {
				lastErr = err
				break
			}
		}
	}

	if generator.IsOverloaded(lastErr) {
		return "", &generator.GenError{
			Code:    generator.ErrProviderOverloaded,
			Message: overloadedMessage,
			Cause:   lastErr,
		}
	}
	return "", &generator.GenError{
		Code:    generator.ErrCompletionFailed,
		Message: fmt.Sprintf("Failed to generate after %d attempts. Please try again later.", c.MaxRetries),
		Cause:   lastErr,
	}
}

func (c *Client) doGenerate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", generator.WrapGenError(generator.ErrInvalidRequest, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", generator.WrapGenError(generator.ErrInvalidRequest, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &generator.GenError{
			Code:      generator.ErrNetworkFailed,
			Message:   "generate request failed",
			Retryable: true,
			Cause:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if generator.IsOverloadMessage(string(body)) || resp.StatusCode == http.StatusServiceUnavailable {
			return "", &generator.GenError{
				Code:      generator.ErrProviderOverloaded,
				Message:   busyMessage,
				Retryable: true,
			}
		}
		return "", &generator.GenError{
			Code:    generator.ErrCompletionFailed,
			Message: fmt.Sprintf("api error (%d): %s", resp.StatusCode, string(body)),
		}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", generator.WrapGenError(generator.ErrResponseParseFailed, "decode response", err)
	}
	if out.Status != "success" || out.Text == "" {
		msg := out.Error
		if msg == "" {
			msg = "generation returned no text"
		}
		return "", generator.NewGenError(generator.ErrResponseParseFailed, msg)
	}
	return out.Text, nil
}

// backoff computes the delay before the next attempt: exponential
// doubling from InitialDelay with up to 25% proportional jitter, so
// successive delays stay monotonically non-decreasing.
func (c *Client) backoff(attempt int) time.Duration {
	base := c.InitialDelay << (attempt - 1)
	jitter := time.Duration(rand.Int63n(int64(base/4) + 1))
	return base + jitter
}

func (c *Client) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CheckProgress polls the progress endpoint for a request id.
func (c *Client) CheckProgress(ctx context.Context, requestID string) (progress.Entry, error) {
	u := fmt.Sprintf("%s/api/progress?requestId=%s", c.BaseURL, url.QueryEscape(requestID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return progress.Entry{}, generator.WrapGenError(generator.ErrInvalidRequest, "build request", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return progress.Entry{}, generator.WrapGenError(generator.ErrNetworkFailed, "progress request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return progress.Entry{}, generator.NewGenError(generator.ErrCompletionFailed,
			fmt.Sprintf("api error (%d)", resp.StatusCode))
	}

	var entry progress.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return progress.Entry{}, generator.WrapGenError(generator.ErrResponseParseFailed, "decode progress", err)
	}
	return entry, nil
}
