// Package theme derives the storefront colour palette and pushes it to sinks.
package theme

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidColor = errors.New("invalid hex colour")

// ParseHex accepts "#rrggbb", "#rgb" and the same without '#'.
func ParseHex(hex string) (r, g, b uint8, err error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// Normalize returns the canonical 7-char lowercase form of a colour.
func Normalize(hex string) (string, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return formatHex(r, g, b), nil
}

// Darken subtracts round(2.55*percent) from every channel, clamped to [0,255].
// A negative percent lightens.
func Darken(hex string, percent float64) (string, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	// round(2.55*percent) without the inexact 2.55 literal
	amt := int(math.Round(percent * 255 / 100))
	return formatHex(shift(r, amt), shift(g, amt), shift(b, amt)), nil
}

func shift(c uint8, amt int) uint8 {
	v := int(c) - amt
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func formatHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
