// Package clients provides HTTP clients for outbound service calls.
package clients

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"erp-service/internal/config"
	"erp-service/internal/models"
	"github.com/tidwall/gjson"
)

const (
	chatTemperature = 0.7
	chatMaxTokens   = 2000
)

// Completion is one answer from the chat backend
type Completion struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// APIError is a non-200 answer from the chat backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat api returned %d: %s", e.StatusCode, e.Message)
}

// ChatClient talks to an OpenAI compatible chat-completions endpoint
type ChatClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewChatClient(cfg config.AIConfig) *ChatClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
		ForceAttemptHTTP2:   true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	return &ChatClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Configured reports whether a usable API key is present
func (c *ChatClient) Configured() bool {
	return c != nil && len(c.apiKey) >= 10 && c.apiKey != "sk-placeholder"
}

func (c *ChatClient) endpoint() string {
	base := c.baseURL
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/chat/completions"
}

// Complete sends the conversation and returns the first choice
func (c *ChatClient) Complete(ctx context.Context, messages []models.Message) (*Completion, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"model":       c.model,
		"messages":    messages,
		"temperature": chatTemperature,
		"max_tokens":  chatMaxTokens,
		"stream":      false,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		message := gjson.GetBytes(body, "error.message").String()
		if message == "" {
			message = strings.TrimSpace(string(body))
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "response has no choices"}
	}
	return &Completion{
		Content:          content.String(),
		PromptTokens:     int(gjson.GetBytes(body, "usage.prompt_tokens").Int()),
		CompletionTokens: int(gjson.GetBytes(body, "usage.completion_tokens").Int()),
	}, nil
}
