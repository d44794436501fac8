package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		code   string
		want   Locale
		wantOK bool
	}{
		{code: "en", want: EN, wantOK: true},
		{code: "HE", want: HE, wantOK: true},
		{code: " ru ", want: RU, wantOK: true},
		{code: "az", want: AZ, wantOK: true},
		{code: "fr", want: Default, wantOK: false},
		{code: "he-IL", want: Default, wantOK: false},
		{code: "", want: Default, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := Parse(tt.code)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, HE, Normalize("he-IL"))
	assert.Equal(t, RU, Normalize("ru_RU"))
	assert.Equal(t, AZ, Normalize("az-AZ"))
	assert.Equal(t, EN, Normalize("en-US"))
	assert.Equal(t, EN, Normalize("de"))
	assert.Equal(t, EN, Normalize(""))
}

func TestLocale_Names(t *testing.T) {
	assert.Equal(t, "English", EN.DisplayName())
	assert.Equal(t, "Русский", RU.DisplayName())
	assert.Equal(t, "עברית", HE.DisplayName())
	assert.Equal(t, "Azərbaycan", AZ.DisplayName())
	assert.Equal(t, "en", Locale(42).String())
	assert.True(t, HE.IsRTL())
	assert.False(t, RU.IsRTL())
}
