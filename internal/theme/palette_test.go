package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Precedence(t *testing.T) {
	r := NewResolver(DefaultPalette, DefaultHoverDarkenPercent)

	tests := []struct {
		name string
		src  Sources
		want Palette
	}{
		{
			name: "Defaults when nothing set",
			src:  Sources{},
			want: Palette{Primary: "#8b2635", PrimaryHover: "#6b2d1f"},
		},
		{
			name: "Event colour wins over everything",
			src: Sources{
				EventColor:   "#FFFFFF",
				PrimaryColor: "#000000",
				SetupConfig:  []byte(`{"primaryColor":"#111111","primaryHoverColor":"#222222"}`),
			},
			want: Palette{Primary: "#ffffff", PrimaryHover: "#cccccc"},
		},
		{
			name: "Persisted primary colour over setup config",
			src: Sources{
				PrimaryColor: "#8B2635",
				SetupConfig:  []byte(`{"primaryColor":"#111111"}`),
			},
			want: Palette{Primary: "#8b2635", PrimaryHover: "#580002"},
		},
		{
			name: "Setup config with explicit hover",
			src:  Sources{SetupConfig: []byte(`{"primaryColor":"#1A2847","primaryHoverColor":"#0F1A30"}`)},
			want: Palette{Primary: "#1a2847", PrimaryHover: "#0f1a30"},
		},
		{
			name: "Setup config hover derived when missing",
			src:  Sources{SetupConfig: []byte(`{"primaryColor":"#ffffff"}`)},
			want: Palette{Primary: "#ffffff", PrimaryHover: "#cccccc"},
		},
		{
			name: "Setup config hover derived when malformed",
			src:  Sources{SetupConfig: []byte(`{"primaryColor":"#ffffff","primaryHoverColor":"nope"}`)},
			want: Palette{Primary: "#ffffff", PrimaryHover: "#cccccc"},
		},
		{
			name: "Malformed event colour falls through",
			src:  Sources{EventColor: "red", PrimaryColor: "#ffffff"},
			want: Palette{Primary: "#ffffff", PrimaryHover: "#cccccc"},
		},
		{
			name: "Malformed everything falls to defaults",
			src: Sources{
				EventColor:   "#12",
				PrimaryColor: "blue",
				SetupConfig:  []byte(`{"primaryColor":42}`),
			},
			want: DefaultPalette,
		},
		{
			name: "Broken setup json falls to defaults",
			src:  Sources{SetupConfig: []byte(`{`)},
			want: DefaultPalette,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.src))
		})
	}
}

func TestNewResolver_InvalidDefaults(t *testing.T) {
	r := NewResolver(Palette{Primary: "oops", PrimaryHover: "#ABC"}, 20)
	assert.Equal(t, Palette{Primary: "#8b2635", PrimaryHover: "#aabbcc"}, r.Defaults)
}

func TestPalette_CSS(t *testing.T) {
	css := Palette{Primary: "#ffffff", PrimaryHover: "#cccccc"}.CSS()
	assert.Contains(t, css, "--color-primary: #ffffff;")
	assert.Contains(t, css, "--color-primary-hover: #cccccc;")
}
