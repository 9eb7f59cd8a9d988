// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import "testing"

func TestNewLength(t *testing.T) {
	s := New()
	if len(s) != Length {
		t.Errorf("New() = %q, want %d characters", s, Length)
	}
}

func TestNewAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		s := New()
		for _, c := range s {
			switch {
			case c >= 'a' && c <= 'z':
			case c >= 'A' && c <= 'Z':
			case c >= '0' && c <= '9':
			case c == '-' || c == '_':
			default:
				t.Fatalf("New() = %q contains unexpected character %q", s, c)
			}
		}
	}
}

func TestNewUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := New()
		if seen[s] {
			t.Fatalf("duplicate slug %q after %d generations", s, i)
		}
		seen[s] = true
	}
}
