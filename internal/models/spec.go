// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode/utf8"
)

// Field bounds for the generator's StoreSpec. Lengths are rune counts.
const (
	MaxSpecNameLen        = 48
	MaxSpecDescriptionLen = 155
	MaxHeroTitleLen       = 60
	MaxHeroSubtitleLen    = 120
	MaxProductNameLen     = 40
	MaxProductDescLen     = 200
	MinProductPrice       = 1
	MaxProductPrice       = 99999
	MinProducts           = 2
	MaxProducts           = 6
	MaxFAQItems           = 5
	MaxFAQQuestionLen     = 100
	MaxFAQAnswerLen       = 300
)

// hexColor matches a #-prefixed six-digit hex color, case-insensitive.
var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var (
	specFontFamilies = map[string]bool{"inter": true, "playfair": true, "poppins": true}
	specStyles       = map[string]bool{"minimal": true, "bold": true, "organic": true}
)

// StoreSpec is the generator's structured description of a store prior to
// persistence. A spec is accepted or rejected as a whole: Validate never
// coerces or truncates.
type StoreSpec struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Hero        HeroSpec      `json:"hero"`
	Products    []ProductSpec `json:"products"`
	Theme       Theme         `json:"theme"`
	FAQ         []FAQItem     `json:"faq"`
}

// HeroSpec describes the hero section of a generated store.
type HeroSpec struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"imageUrl"`
}

// ProductSpec describes one product to create. ImagePrompt feeds the
// image synthesizer; Price is in integer cents.
type ProductSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	ImagePrompt string `json:"imagePrompt"`
}

// Validate checks every field of the spec against its schema bounds and
// returns the first violation found.
func (s *StoreSpec) Validate() error {
	if err := requireString("name", s.Name, MaxSpecNameLen); err != nil {
		return err
	}
	if err := requireString("description", s.Description, MaxSpecDescriptionLen); err != nil {
		return err
	}

	if err := requireString("hero.title", s.Hero.Title, MaxHeroTitleLen); err != nil {
		return err
	}
	if err := requireString("hero.subtitle", s.Hero.Subtitle, MaxHeroSubtitleLen); err != nil {
		return err
	}
	if err := requireURL("hero.imageUrl", s.Hero.ImageURL); err != nil {
		return err
	}

	if n := len(s.Products); n < MinProducts || n > MaxProducts {
		return fmt.Errorf("products: need %d-%d entries, got %d", MinProducts, MaxProducts, n)
	}
	for i, p := range s.Products {
		field := fmt.Sprintf("products[%d]", i)
		if err := requireString(field+".name", p.Name, MaxProductNameLen); err != nil {
			return err
		}
		if err := requireString(field+".description", p.Description, MaxProductDescLen); err != nil {
			return err
		}
		if p.Price < MinProductPrice || p.Price > MaxProductPrice {
			return fmt.Errorf("%s.price: %d cents is outside [%d, %d]", field, p.Price, MinProductPrice, MaxProductPrice)
		}
		if p.ImagePrompt == "" {
			return fmt.Errorf("%s.imagePrompt: required", field)
		}
	}

	if !hexColor.MatchString(s.Theme.PrimaryColor) {
		return fmt.Errorf("theme.primaryColor: %q is not a six-digit hex color", s.Theme.PrimaryColor)
	}
	if !specFontFamilies[s.Theme.FontFamily] {
		return fmt.Errorf("theme.fontFamily: %q is not one of inter, playfair, poppins", s.Theme.FontFamily)
	}
	if !specStyles[s.Theme.Style] {
		return fmt.Errorf("theme.style: %q is not one of minimal, bold, organic", s.Theme.Style)
	}

	if len(s.FAQ) > MaxFAQItems {
		return fmt.Errorf("faq: at most %d entries, got %d", MaxFAQItems, len(s.FAQ))
	}
	for i, f := range s.FAQ {
		field := fmt.Sprintf("faq[%d]", i)
		if err := requireString(field+".question", f.Question, MaxFAQQuestionLen); err != nil {
			return err
		}
		if err := requireString(field+".answer", f.Answer, MaxFAQAnswerLen); err != nil {
			return err
		}
	}

	return nil
}

// requireString enforces presence and a maximum rune length.
func requireString(field, value string, max int) error {
	if value == "" {
		return fmt.Errorf("%s: required", field)
	}
	if n := utf8.RuneCountInString(value); n > max {
		return fmt.Errorf("%s: %d characters exceeds the %d limit", field, n, max)
	}
	return nil
}

// requireURL enforces a non-empty absolute http(s) URL.
func requireURL(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s: required", field)
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s: %q is not a valid URL", field, value)
	}
	return nil
}
