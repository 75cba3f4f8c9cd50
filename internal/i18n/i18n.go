// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package i18n holds the supported site languages, the UI dictionaries and
// the overlay resolver that merges translation rows over base-language
// content.
package i18n

import "strings"

// Lang is a supported site language code.
type Lang string

const (
	English Lang = "en"
	Dutch   Lang = "nl"
)

// Base is the language the catalogue is authored in. Content in any other
// language comes from translation overlays.
const Base = English

// Supported lists the site languages in switcher order.
var Supported = []Lang{English, Dutch}

// IsValid reports whether s names a supported language.
func IsValid(s string) bool {
	for _, l := range Supported {
		if string(l) == s {
			return true
		}
	}
	return false
}

// Parse returns the language named by s, or fallback if s is not supported.
func Parse(s string, fallback Lang) Lang {
	s = strings.ToLower(strings.TrimSpace(s))
	if IsValid(s) {
		return Lang(s)
	}
	return fallback
}

// Name returns the English display name of a language, used in AI prompts.
func (l Lang) Name() string {
	switch l {
	case Dutch:
		return "Dutch"
	default:
		return "English"
	}
}

// IsBase reports whether l is the authoring language.
func (l Lang) IsBase() bool {
	return l == Base
}

// Translations returns the non-base languages content can be translated into.
func Translations() []Lang {
	var out []Lang
	for _, l := range Supported {
		if !l.IsBase() {
			out = append(out, l)
		}
	}
	return out
}
