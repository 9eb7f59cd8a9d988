// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package moderation decides whether a prompt may enter the generation
// pipeline. It combines a local denylist of brand/IP-risk terms with an
// external content moderation service.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"popshop/internal/ai"
)

// Reason classifies why a prompt was blocked.
type Reason string

const (
	ReasonNone          Reason = "none"
	ReasonPotentialIP   Reason = "potential_ip"
	ReasonContentPolicy Reason = "content_policy"
)

// Verdict is the outcome of moderating one prompt. It is consumed
// immediately and never persisted.
type Verdict struct {
	Allowed     bool
	Reason      Reason
	Suggestions []string
}

// blockedTerms is the local denylist of brand/IP-risk terms, matched as
// lowercase substrings.
var blockedTerms = []string{"gun", "drugs"}

var ipSuggestions = []string{
	"Try describing the aesthetic or style instead of brand names",
	"Focus on the theme or vibe rather than specific products",
	`Use generic terms like "pop star merch" or "athletic wear"`,
}

var policySuggestions = []string{
	"Please rephrase your request to focus on safe, family-friendly products",
}

// BlockedError is returned by the pipeline when moderation rejects a
// prompt. It carries the verdict's reason and rephrasing suggestions so
// the HTTP boundary can surface actionable feedback.
type BlockedError struct {
	Reason      Reason
	Suggestions []string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("content blocked: %s", e.Reason)
}

// Gate moderates prompts before generation.
type Gate struct {
	moderator ai.Moderator
}

// NewGate creates a moderation gate backed by the given external moderator.
func NewGate(m ai.Moderator) *Gate {
	return &Gate{moderator: m}
}

// Check moderates a prompt. With allowBypass false, the local denylist is
// scanned first and a hit short-circuits without any external call. The
// external service is consulted otherwise; its transport or API failures
// propagate as hard errors, since proceeding unmoderated is unsafe.
func (g *Gate) Check(ctx context.Context, prompt string, allowBypass bool) (*Verdict, error) {
	if !allowBypass {
		lower := strings.ToLower(prompt)
		for _, term := range blockedTerms {
			if strings.Contains(lower, term) {
				slog.Info("prompt blocked by denylist", "term", term)
				return &Verdict{
					Allowed:     false,
					Reason:      ReasonPotentialIP,
					Suggestions: ipSuggestions,
				}, nil
			}
		}
	}

	result, err := g.moderator.CheckSafety(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("moderation service: %w", err)
	}

	if !result.Safe {
		slog.Info("prompt flagged by moderation service", "categories", result.Categories)
		return &Verdict{
			Allowed:     false,
			Reason:      ReasonContentPolicy,
			Suggestions: policySuggestions,
		}, nil
	}

	return &Verdict{Allowed: true, Reason: ReasonNone, Suggestions: []string{}}, nil
}
