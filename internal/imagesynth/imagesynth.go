// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imagesynth turns descriptive prompts into image URLs. Every call
// is independent: no retry, no cache, safe to issue concurrently for
// different prompts.
package imagesynth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// promptTemplate frames every request as clean product photography.
const promptTemplate = "Professional product photo: %s, clean white background, high quality, commercial photography, well-lit, centered"

// ImageClient is the slice of the AI client the synthesizer needs.
type ImageClient interface {
	GenerateImageURL(ctx context.Context, prompt string) (string, error)
	GenerateImageBytes(ctx context.Context, prompt string) ([]byte, string, error)
}

// ObjectStore persists image bytes and serves them at a public URL.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
}

// Synthesizer generates one image per call. With an object store
// configured, generated bytes are uploaded and the durable public URL is
// returned; without one, the image API's own hosted URL is passed through.
type Synthesizer struct {
	client ImageClient
	store  ObjectStore
}

// New creates a Synthesizer. store may be nil.
func New(client ImageClient, store ObjectStore) *Synthesizer {
	return &Synthesizer{client: client, store: store}
}

// Synthesize produces a single image for the descriptive prompt and
// returns its URL.
func (s *Synthesizer) Synthesize(ctx context.Context, descriptivePrompt string) (string, error) {
	full := fmt.Sprintf(promptTemplate, descriptivePrompt)

	if s.store == nil {
		url, err := s.client.GenerateImageURL(ctx, full)
		if err != nil {
			return "", fmt.Errorf("image synthesis: %w", err)
		}
		return url, nil
	}

	raw, contentType, err := s.client.GenerateImageBytes(ctx, full)
	if err != nil {
		return "", fmt.Errorf("image synthesis: %w", err)
	}

	now := time.Now()
	key := fmt.Sprintf("stores/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), extFor(contentType))
	if err := s.store.Upload(ctx, key, contentType, bytes.NewReader(raw), int64(len(raw))); err != nil {
		return "", fmt.Errorf("image upload: %w", err)
	}

	return s.store.FileURL(key), nil
}

func extFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
