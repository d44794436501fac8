package theme

import (
	"encoding/json"
	"fmt"
)

// DefaultHoverDarkenPercent is used when no explicit hover colour exists.
const DefaultHoverDarkenPercent = 20

// Palette is the pair of CSS custom properties the storefront themes on.
type Palette struct {
	Primary      string `json:"primary"`
	PrimaryHover string `json:"primary_hover"`
}

// DefaultPalette is the built-in brand palette.
var DefaultPalette = Palette{Primary: "#8b2635", PrimaryHover: "#6b2d1f"}

// CSS renders the palette as a :root rule.
func (p Palette) CSS() string {
	return fmt.Sprintf(":root {\n  --color-primary: %s;\n  --color-primary-hover: %s;\n}\n", p.Primary, p.PrimaryHover)
}

// Sources are the colour inputs, most specific first.
type Sources struct {
	// EventColor comes from a live "branding updated" event.
	EventColor string
	// PrimaryColor is the persisted primary_color column.
	PrimaryColor string
	// SetupConfig is the raw setup_config JSON written by the setup wizard.
	SetupConfig []byte
}

type setupColors struct {
	PrimaryColor      string `json:"primaryColor"`
	PrimaryHoverColor string `json:"primaryHoverColor"`
}

// Resolver picks a Palette from Sources.
type Resolver struct {
	Defaults      Palette
	DarkenPercent float64
}

// NewResolver falls back to DefaultPalette for any invalid default colour.
func NewResolver(defaults Palette, darkenPercent float64) Resolver {
	if p, err := Normalize(defaults.Primary); err == nil {
		defaults.Primary = p
	} else {
		defaults.Primary = DefaultPalette.Primary
	}
	if h, err := Normalize(defaults.PrimaryHover); err == nil {
		defaults.PrimaryHover = h
	} else {
		defaults.PrimaryHover = DefaultPalette.PrimaryHover
	}
	return Resolver{Defaults: defaults, DarkenPercent: darkenPercent}
}

// Resolve walks the sources in precedence order. A malformed colour is
// skipped as if it were absent.
//
//  1. event colour
//  2. persisted primary_color
//  3. setup_config primaryColor, with primaryHoverColor when valid
//  4. defaults
func (r Resolver) Resolve(src Sources) Palette {
	if p, ok := r.derived(src.EventColor); ok {
		return p
	}
	if p, ok := r.derived(src.PrimaryColor); ok {
		return p
	}

	if len(src.SetupConfig) > 0 {
		var cfg setupColors
		if err := json.Unmarshal(src.SetupConfig, &cfg); err == nil {
			if primary, err := Normalize(cfg.PrimaryColor); err == nil {
				if hover, err := Normalize(cfg.PrimaryHoverColor); err == nil {
					return Palette{Primary: primary, PrimaryHover: hover}
				}
				if p, ok := r.derived(primary); ok {
					return p
				}
			}
		}
	}

	return r.Defaults
}

func (r Resolver) derived(color string) (Palette, bool) {
	if color == "" {
		return Palette{}, false
	}
	primary, err := Normalize(color)
	if err != nil {
		return Palette{}, false
	}
	hover, err := Darken(primary, r.DarkenPercent)
	if err != nil {
		return Palette{}, false
	}
	return Palette{Primary: primary, PrimaryHover: hover}, true
}
