package bubble

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Variant selects one of the three animator behaviours.
type Variant int

const (
	// Element animates inside a single element's box and never pauses.
	Element Variant = iota
	// Fullscreen animates across the viewport and pauses while hidden.
	Fullscreen
	// Parallax bobs in place and follows pointer or tilt input.
	Parallax
)

var variantNames = [...]string{"element", "fullscreen", "parallax"}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return variantNames[v]
}

// Variants lists every variant in declaration order.
func Variants() []Variant {
	return []Variant{Element, Fullscreen, Parallax}
}

// ParseVariant accepts a variant name. "canvas" is an alias for element.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "element", "canvas":
		return Element, nil
	case "fullscreen", "full":
		return Fullscreen, nil
	case "parallax":
		return Parallax, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// DeviceClass is the coarse device category that picks the particle count.
type DeviceClass int

const (
	Desktop DeviceClass = iota
	Mobile
)

func (c DeviceClass) String() string {
	if c == Mobile {
		return "mobile"
	}
	return "desktop"
}

// ParseDeviceClass accepts "desktop" or "mobile".
func ParseDeviceClass(s string) (DeviceClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desktop":
		return Desktop, nil
	case "mobile":
		return Mobile, nil
	}
	return Desktop, fmt.Errorf("bubble: unknown device class %q", s)
}

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Range is a half-open interval [Min, Max) sampled uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func (r Range) Contains(x float64) bool {
	return x >= r.Min && x < r.Max
}

// Particle is one bubble. Positions and radii are in device pixels.
//
// For the parallax variant X and Y are the fixed base position; the drawn
// position adds the bob and the depth-scaled offset.
type Particle struct {
	X, Y   float64
	R      float64
	VX, VY float64
	// Tint picks the theme colour: < 0.5 primary, otherwise secondary.
	Tint float64

	Depth float64
	Phase float64
	Speed float64
}

// Secondary reports whether the particle uses the secondary theme colour.
func (p Particle) Secondary() bool { return p.Tint >= 0.5 }

// Sprite is a particle as it is drawn this frame.
type Sprite struct {
	X, Y float64
	R    float64
	Tint float64
	// Highlight is the up-left offset of the gradient focus as a fraction of R.
	Highlight float64
	EdgeAlpha float64
}

func (s Sprite) Secondary() bool { return s.Tint >= 0.5 }

// Environment reports host facts the animator reads but never changes.
type Environment interface {
	DevicePixelRatio() float64
	DeviceClass() DeviceClass
	ReducedMotion() bool
}

// StaticEnvironment is an Environment with fixed answers.
type StaticEnvironment struct {
	DPR     float64
	Class   DeviceClass
	Reduced bool
}

func (e StaticEnvironment) DevicePixelRatio() float64 { return e.DPR }
func (e StaticEnvironment) DeviceClass() DeviceClass  { return e.Class }
func (e StaticEnvironment) ReducedMotion() bool       { return e.Reduced }

// Renderer paints one frame. Sprites are only valid during the call.
type Renderer interface {
	Render(width, height int, sprites []Sprite)
}

type RendererFunc func(width, height int, sprites []Sprite)

func (f RendererFunc) Render(width, height int, sprites []Sprite) { f(width, height, sprites) }

type nopRenderer struct{}

func (nopRenderer) Render(int, int, []Sprite) {}

// FrameInfo is passed to observers after every rendered frame.
type FrameInfo struct {
	Frame     int
	Width     int
	Height    int
	DPR       float64
	Particles int
	// Recycled counts particles recycled during this frame.
	Recycled int
	Offset   Vec2
	Target   Vec2
	Sprites  []Sprite
}

type Observer interface {
	OnFrame(info FrameInfo)
}
