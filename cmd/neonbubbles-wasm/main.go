//go:build js && wasm

// Command neonbubbles-wasm mounts bubble animations on the page that loads it.
package main

import (
	"log/slog"
	"os"

	"github.com/san-kum/neonbubbles/internal/render"
	"github.com/san-kum/neonbubbles/internal/web"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	host := web.NewHost(web.Options{Palette: render.DefaultPalette(), Logger: logger})
	host.Mount()
	select {}
}
