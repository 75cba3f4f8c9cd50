// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package quiz holds the answer-matching rule used by the public quiz pages
// and the shuffling used by the quick quiz.
package quiz

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

var (
	// punctuation matches anything that isn't a lowercase letter, digit,
	// or whitespace.
	punctuation = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Normalize reduces an answer to its comparable form: trimmed, lowercased,
// punctuation removed and whitespace runs collapsed to a single space.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctuation.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CheckAnswer reports whether a visitor's answer matches the stored one,
// ignoring case, punctuation and extra whitespace.
func CheckAnswer(given, correct string) bool {
	return Normalize(given) == Normalize(correct)
}

// Shuffle returns a shuffled copy of items. The input slice is not modified.
func Shuffle[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
