// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides thin HTTP clients for the OpenAI APIs used by the
// generation pipeline: chat completions for store copy, the moderation
// endpoint for prompt safety, and image generation for product photos.
// Each capability carries its own per-call timeout.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Per-call timeouts. The edge imposes the overall request deadline; these
// bound each upstream call individually.
const (
	chatTimeout       = 60 * time.Second
	moderationTimeout = 30 * time.Second
	imageTimeout      = 120 * time.Second
)

// Config holds the credentials and model selection for the OpenAI client.
type Config struct {
	APIKey     string
	BaseURL    string // defaults to the public OpenAI endpoint
	TextModel  string
	ImageModel string
}

// Client talks to the OpenAI HTTP APIs. It is safe for concurrent use and
// intended to be constructed once at process start and injected into the
// components that need it.
type Client struct {
	config           Config
	chatClient       *http.Client
	moderationClient *http.Client
	imageClient      *http.Client
}

// NewClient creates an OpenAI client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &Client{
		config:           cfg,
		chatClient:       &http.Client{Timeout: chatTimeout},
		moderationClient: &http.Client{Timeout: moderationTimeout},
		imageClient:      &http.Client{Timeout: imageTimeout},
	}
}

// GenerateJSON sends a chat completion request in JSON mode (the most
// deterministic structured-output mode the API offers) and returns the
// assistant's response text, which should be a JSON document.
func (c *Client) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := chatRequest{
		Model: c.config.TextModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    0.8,
	}
	return c.doChat(ctx, body)
}

// doChat performs the HTTP call to the chat completions endpoint.
func (c *Client) doChat(ctx context.Context, body chatRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("openai marshal: %w", err)
	}

	respBody, err := c.post(ctx, c.chatClient, "/chat/completions", payload)
	if err != nil {
		return "", err
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("openai unmarshal: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	if result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: empty completion content")
	}

	return result.Choices[0].Message.Content, nil
}

// post issues an authorized JSON POST and returns the response body.
// Non-200 statuses become errors carrying the upstream body.
func (c *Client) post(ctx context.Context, client *http.Client, path string, payload []byte) ([]byte, error) {
	url := c.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// --- Chat completions request/response types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
