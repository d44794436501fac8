package locale

import "github.com/donde/storefront-backend/internal/app/model"

// Option is one entry of the language switcher.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	RTL   bool   `json:"rtl"`
}

// SwitcherOptions lists the locales offered in the language switcher.
// Exclusion only hides a locale from the switcher; its routes keep resolving.
// Settings with a non-nil switcher_excluded_locales override defaultExcluded.
func SwitcherOptions(s *model.StoreSettings, defaultExcluded []string) []Option {
	excludedCodes := defaultExcluded
	if s != nil && s.SwitcherExcludedLocales != nil {
		excludedCodes = s.SwitcherExcludedLocales
	}

	var excluded [localeCount]bool
	for _, code := range excludedCodes {
		if l, ok := Parse(code); ok {
			excluded[l] = true
		}
	}

	options := make([]Option, 0, localeCount)
	for _, l := range All() {
		if excluded[l] {
			continue
		}
		options = append(options, Option{
			Code:  l.String(),
			Label: Resolve(s, LangLabel, l),
			RTL:   l.IsRTL(),
		})
	}
	return options
}
