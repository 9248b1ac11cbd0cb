// Package ollama provides a model.Backend implementation for a local Ollama
// server. Generation uses the /api/chat endpoint with line-delimited JSON
// streaming; availability probing uses /api/tags so an unreachable server
// and a missing model surface as distinct, typed conditions.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/duet/logging"
	"github.com/hupe1980/duet/model"
)

// DefaultBaseURL is the Ollama API root on a default local install.
const DefaultBaseURL = "http://localhost:11434/api"

// Options configure the Ollama client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	// ProbeTimeout bounds the availability probe only; generation requests
	// run without a client-side timeout since a turn may stream for minutes.
	ProbeTimeout time.Duration
	Logger       logging.Logger
}

// Client talks to one Ollama server. It is stateless apart from its
// configuration and safe for concurrent use.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	probeTimeout time.Duration
	logger       logging.Logger
}

// New constructs a Client with optional overrides.
func New(optFns ...func(o *Options)) *Client {
	opts := Options{
		BaseURL:      DefaultBaseURL,
		HTTPClient:   &http.Client{},
		ProbeTimeout: 5 * time.Second,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{
		baseURL:      opts.BaseURL,
		httpClient:   opts.HTTPClient,
		probeTimeout: opts.ProbeTimeout,
		logger:       opts.Logger,
	}
}

// Info implements model.Backend.
func (c *Client) Info() model.Info { return model.Info{Provider: "ollama"} }

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Models lists the names of locally installed models.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("build tags request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindConnectivity, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindProtocol, Err: fmt.Errorf("tags returned status %d", resp.StatusCode)}
	}
	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, &Error{Kind: KindProtocol, Err: fmt.Errorf("decode tags response: %w", err)}
	}
	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

// Verify implements model.Backend: the server must answer the tags probe
// and the named model must be installed.
func (c *Client) Verify(ctx context.Context, modelName string) error {
	names, err := c.Models(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == modelName {
			c.logger.Debug("model available", "model", modelName)
			return nil
		}
	}
	return &Error{Kind: KindModelUnavailable, Model: modelName}
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Options  requestOptions `json:"options"`
	Stream   bool           `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type requestOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

// ChatStream implements model.Backend. The returned stream decodes the
// server's line-delimited JSON response; the caller owns draining and
// closing it.
func (c *Client) ChatStream(ctx context.Context, req model.Request) (model.Stream, error) {
	payload := chatRequest{
		Model:    req.Model,
		Messages: make([]chatMessage, len(req.Messages)),
		Options:  requestOptions{NumPredict: req.MaxTokens},
		Stream:   true,
	}
	for i, m := range req.Messages {
		payload.Messages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: KindConnectivity, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &Error{Kind: KindProtocol, Err: fmt.Errorf("chat returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))}
	}
	c.logger.Debug("chat stream opened", "model", req.Model, "messages", len(req.Messages))
	return newStream(resp.Body, c.logger), nil
}
