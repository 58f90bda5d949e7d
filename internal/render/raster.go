package render

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

// Raster renders frames into an in-memory image with gg.
type Raster struct {
	pal   Palette
	ctx   *gg.Context
	w, h  int
	log   *slog.Logger
	draws int
}

func NewRaster(pal Palette) *Raster {
	return &Raster{pal: pal, log: gg.Logger()}
}

// Render implements bubble.Renderer. Zero-sized frames draw nothing.
func (r *Raster) Render(w, h int, sprites []bubble.Sprite) {
	r.w, r.h = w, h
	if w <= 0 || h <= 0 {
		return
	}
	if r.ctx == nil {
		r.ctx = gg.NewContext(w, h)
	} else if err := r.ctx.Resize(w, h); err != nil {
		r.log.Warn("raster resize failed", "err", err)
		return
	}

	if bg := r.pal.Background; bg != nil {
		r.ctx.ClearWithColor(Stop{Color: *bg, Alpha: 1}.RGBA())
	} else {
		r.ctx.Clear()
	}

	for _, s := range sprites {
		if s.R <= 0 {
			continue
		}
		r.fill(r.pal.Gradient(s))
	}
}

// radialBrush builds the gg brush for g with the same start and end circles
// the canvas and SVG renderers use.
func radialBrush(g Gradient) *gg.RadialGradientBrush {
	brush := gg.NewRadialGradientBrush(g.CX, g.CY, g.R0, g.R1).SetFocus(g.FX, g.FY)
	for _, st := range g.Stops {
		brush.AddColorStop(st.Offset, st.RGBA())
	}
	return brush
}

func (r *Raster) fill(g Gradient) {
	r.ctx.SetFillBrush(radialBrush(g))
	r.ctx.DrawCircle(g.CX, g.CY, g.R1)
	if err := r.ctx.Fill(); err != nil {
		r.log.Warn("bubble fill failed", "err", err)
		return
	}
	r.draws++
}

// Image returns the last frame, or nil before the first non-empty frame.
func (r *Raster) Image() image.Image {
	if r.ctx == nil || r.w <= 0 || r.h <= 0 {
		return nil
	}
	return r.ctx.Image()
}

// Pixels returns the last frame as straight-alpha RGBA pixels in row order,
// the layout texture uploads expect.
func (r *Raster) Pixels() []color.RGBA {
	img := r.Image()
	if img == nil {
		return nil
	}
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(b)
		draw.Draw(nrgba, b, img, b.Min, draw.Src)
	}
	out := make([]color.RGBA, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := nrgba.Pix[nrgba.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4 : x*4+4]
			out = append(out, color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]})
		}
	}
	return out
}

func (r *Raster) SavePNG(path string) error {
	if r.ctx == nil {
		return ErrEmptyFrame
	}
	return r.ctx.SavePNG(path)
}

// Draws returns the number of bubbles filled so far.
func (r *Raster) Draws() int { return r.draws }

func (r *Raster) Close() error {
	if r.ctx == nil {
		return nil
	}
	return r.ctx.Close()
}
