// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package quiz

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "PARIS", "paris"},
		{"trims", "  Rome  ", "rome"},
		{"drops punctuation", "Mount Everest!", "mount everest"},
		{"collapses whitespace", "Mount   \t Everest", "mount everest"},
		{"drops apostrophes", "Newton's law", "newtons law"},
		{"keeps digits", "Apollo 11", "apollo 11"},
		{"punctuation only", "?!", ""},
		{"punctuation between words", "a - b", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		given, correct string
		want           bool
	}{
		{"Mount  Everest!", "mount everest", true},
		{"Paris", "London", false},
		{"the beatles", "The Beatles.", true},
		{"  1969 ", "1969", true},
		{"Mars, the Red Planet", "mars the red planet", true},
		{"Marss", "Mars", false},
		{"", "", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckAnswer(tt.given, tt.correct), "CheckAnswer(%q, %q)", tt.given, tt.correct)
	}
}

func TestShuffle_KeepsElements(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	out := Shuffle(in)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, in, "input must not be modified")
	assert.Len(t, out, len(in))

	sorted := slices.Clone(out)
	slices.Sort(sorted)
	assert.Equal(t, in, sorted)
}

func TestShuffle_Empty(t *testing.T) {
	assert.Empty(t, Shuffle([]string{}))
	assert.Empty(t, Shuffle[string](nil))
}
