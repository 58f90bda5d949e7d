package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/neonbubbles/internal/render"
)

// RenderPalette parses the palette section.
func (c *Config) RenderPalette() (render.Palette, error) {
	pal := render.DefaultPalette()
	var err error
	if pal.Highlight, err = colorful.Hex(c.Palette.Highlight); err != nil {
		return pal, fmt.Errorf("config: palette highlight: %w", err)
	}
	if pal.Primary, err = colorful.Hex(c.Palette.Primary); err != nil {
		return pal, fmt.Errorf("config: palette primary: %w", err)
	}
	if pal.Secondary, err = colorful.Hex(c.Palette.Secondary); err != nil {
		return pal, fmt.Errorf("config: palette secondary: %w", err)
	}
	if c.Palette.Background != "" {
		bg, err := colorful.Hex(c.Palette.Background)
		if err != nil {
			return pal, fmt.Errorf("config: palette background: %w", err)
		}
		pal.Background = &bg
	}
	pal.HighlightAlpha = c.Palette.HighlightAlpha
	pal.MidAlpha = c.Palette.MidAlpha
	return pal, nil
}
