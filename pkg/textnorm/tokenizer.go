package textnorm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pcru-chatbot-be/internal/pkg/logger"
)

const (
	DefaultTokenizerTimeout = 10 * time.Second

	// MaxTokenizerResponseBytes caps how much of a tokenizer reply is read.
	MaxTokenizerResponseBytes = 1 << 20
)

// Tokenizer segments text into words. A nil or empty result means "no tokens"
// and callers fall back to local segmentation.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) []string
}

type tokenizeRequest struct {
	Text string `json:"text"`
}

type tokenizeResponse struct {
	Tokens []interface{} `json:"tokens"`
}

// HTTPTokenizer calls the external word segmentation service.
type HTTPTokenizer struct {
	url      string
	timeout  time.Duration
	maxBytes int64
	client   *http.Client
	logger   logger.ILogger
}

func NewHTTPTokenizer(url string, timeout time.Duration, log logger.ILogger) *HTTPTokenizer {
	if timeout <= 0 {
		timeout = DefaultTokenizerTimeout
	}
	return &HTTPTokenizer{
		url:      url,
		timeout:  timeout,
		maxBytes: MaxTokenizerResponseBytes,
		client:   &http.Client{Timeout: timeout},
		logger:   log,
	}
}

// Tokenize never returns an error: every failure resolves to nil.
func (t *HTTPTokenizer) Tokenize(ctx context.Context, text string) []string {
	if t == nil || t.url == "" {
		return nil
	}

	tokens, err := t.call(ctx, text)
	if err != nil {
		t.logger.Warn("TOKENIZER", "Tokenizer unavailable, using local segmentation", map[string]interface{}{
			"error": err.Error(),
			"url":   t.url,
		})
		return nil
	}
	return tokens
}

func (t *HTTPTokenizer) call(ctx context.Context, text string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	payload, err := json.Marshal(tokenizeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal tokenize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build tokenize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokenize request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, t.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read tokenize response: %w", err)
	}
	if int64(len(body)) > t.maxBytes {
		return nil, fmt.Errorf("tokenize response exceeds %d bytes", t.maxBytes)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("tokenizer returned status %d", res.StatusCode)
	}

	var parsed tokenizeResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("decode tokenize response: %w", err)
		}
	}

	tokens := make([]string, 0, len(parsed.Tokens))
	for _, raw := range parsed.Tokens {
		if raw == nil {
			continue
		}
		var tok string
		if s, ok := raw.(string); ok {
			tok = s
		} else {
			tok = fmt.Sprint(raw)
		}
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}
