// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug generates short public identifiers for stores. Slugs come
// from a cryptographically seeded nanoid generator and are treated as
// unique by construction; the stores table carries a unique index as the
// backstop.
package slug

import "github.com/jaevor/go-nanoid"

// Length is the number of characters in a store slug. Eight characters of
// the standard 64-symbol alphabet give a negligible collision probability
// at the expected scale.
const Length = 8

var generate func() string

func init() {
	g, err := nanoid.Standard(Length)
	if err != nil {
		// Standard only fails for lengths outside [2,255].
		panic("slug: " + err.Error())
	}
	generate = g
}

// New returns a fresh random slug, e.g. "fV9zK2aQ".
func New() string {
	return generate()
}
