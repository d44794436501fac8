// Package locale resolves per-language store texts with fallbacks.
package locale

import "strings"

// Locale is one of the storefront languages.
type Locale uint8

const (
	EN Locale = iota
	AZ
	HE
	RU

	localeCount
)

// Default is used for unknown or missing locale codes.
const Default = EN

var codes = [localeCount]string{"en", "az", "he", "ru"}

var displayNames = [localeCount]string{
	EN: "English",
	AZ: "Azərbaycan",
	HE: "עברית",
	RU: "Русский",
}

// All returns the supported locales in switcher order.
func All() []Locale {
	out := make([]Locale, 0, localeCount)
	for l := Locale(0); l < localeCount; l++ {
		out = append(out, l)
	}
	return out
}

func (l Locale) String() string {
	if l >= localeCount {
		return codes[Default]
	}
	return codes[l]
}

// DisplayName is the built-in, self-named label of the language.
func (l Locale) DisplayName() string {
	if l >= localeCount {
		return displayNames[Default]
	}
	return displayNames[l]
}

// IsRTL reports whether the language is written right to left.
func (l Locale) IsRTL() bool {
	return l == HE
}

// Parse accepts exactly one of the supported codes (case-insensitive).
func Parse(code string) (Locale, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for i, c := range codes {
		if c == code {
			return Locale(i), true
		}
	}
	return Default, false
}

// Normalize maps any code, including region tags like "he-IL" or "ru_RU",
// to a supported locale and never fails.
func Normalize(code string) Locale {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	if l, ok := Parse(code); ok {
		return l
	}
	return Default
}
