// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// imageSize is the fixed resolution for all generated images.
const imageSize = "1024x1024"

// GenerateImageURL creates one image and returns the URL hosted by the
// image API. The URL is short-lived upstream; callers that need durable
// images should use GenerateImageBytes and store the result themselves.
func (c *Client) GenerateImageURL(ctx context.Context, prompt string) (string, error) {
	result, err := c.doImage(ctx, prompt, "url")
	if err != nil {
		return "", err
	}
	if result.URL == "" {
		return "", fmt.Errorf("openai image: empty image URL")
	}
	return result.URL, nil
}

// GenerateImageBytes creates one image and returns the decoded PNG bytes
// with their content type.
func (c *Client) GenerateImageBytes(ctx context.Context, prompt string) ([]byte, string, error) {
	result, err := c.doImage(ctx, prompt, "b64_json")
	if err != nil {
		return nil, "", err
	}
	if result.B64JSON == "" {
		return nil, "", fmt.Errorf("openai image: empty image payload")
	}

	raw, err := base64.StdEncoding.DecodeString(result.B64JSON)
	if err != nil {
		return nil, "", fmt.Errorf("openai image decode base64: %w", err)
	}
	return raw, "image/png", nil
}

// doImage performs a single image generation call (POST /v1/images/generations).
func (c *Client) doImage(ctx context.Context, prompt, format string) (*imageData, error) {
	body := imageRequest{
		Model:          c.config.ImageModel,
		Prompt:         prompt,
		N:              1,
		Size:           imageSize,
		Quality:        "standard",
		ResponseFormat: format,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("openai image marshal: %w", err)
	}

	respBody, err := c.post(ctx, c.imageClient, "/images/generations", payload)
	if err != nil {
		return nil, err
	}

	var result imageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("openai image unmarshal: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("openai image: no image data in response")
	}
	return &result.Data[0], nil
}

// --- Image generation request/response types ---

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []imageData `json:"data"`
}

type imageData struct {
	URL     string `json:"url"`
	B64JSON string `json:"b64_json"`
}
