package web

import (
	"testing"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

func TestClassifyUserAgent(t *testing.T) {
	tests := []struct {
		ua   string
		want bubble.DeviceClass
	}{
		{"Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0", bubble.Desktop},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", bubble.Mobile},
		{"Mozilla/5.0 (Linux; android 14; Pixel 8)", bubble.Mobile},
		{"", bubble.Desktop},
	}

	for _, tt := range tests {
		if got := ClassifyUserAgent(tt.ua); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.ua, got, tt.want)
		}
	}
}

func TestBackgroundVariant(t *testing.T) {
	tests := []struct {
		attr string
		want bubble.Variant
	}{
		{"", bubble.Fullscreen},
		{"parallax", bubble.Parallax},
		{"fullscreen", bubble.Fullscreen},
		{"element", bubble.Fullscreen},
		{"wobbly", bubble.Fullscreen},
	}

	for _, tt := range tests {
		if got := BackgroundVariant(tt.attr); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.attr, got, tt.want)
		}
	}
}
