package bubble

import "math"

// step advances every particle by one frame and fills a.sprites.
// It returns the number of particles recycled.
func (a *Animator) step() int {
	if a.params.Variant == Parallax {
		a.stepParallax()
		return 0
	}
	return a.stepRise()
}

func (a *Animator) stepRise() int {
	w := float64(a.w)
	recycled := 0
	a.sprites = a.sprites[:0]
	for i := range a.particles {
		p := &a.particles[i]
		p.Y -= p.VY
		p.X += p.VX
		if a.exited(p, w) {
			a.recycle(p)
			recycled++
		}
		a.sprites = append(a.sprites, a.sprite(p.X, p.Y, p))
	}
	return recycled
}

// exited reports whether the particle has fully left the recycling bounds.
func (a *Animator) exited(p *Particle, w float64) bool {
	if p.Y+p.R < -a.params.TopMargin {
		return true
	}
	return a.params.RecycleSides && (p.X < -p.R || p.X > w+p.R)
}

func (a *Animator) stepParallax() {
	a.t += a.params.TimeStep
	a.ease()

	amp := a.params.BobDist * a.dpr
	a.sprites = a.sprites[:0]
	for i := range a.particles {
		p := &a.particles[i]
		bob := math.Sin(a.t*p.Speed+p.Phase) * amp
		x := p.X + a.offset.X*p.Depth*a.dpr
		y := p.Y + a.offset.Y*p.Depth*a.dpr + bob
		a.sprites = append(a.sprites, a.sprite(x, y, p))
	}
}

// ease moves the offset a fixed fraction of the way to the target.
func (a *Animator) ease() {
	k := a.params.Smoothing
	a.offset.X += (a.target.X - a.offset.X) * k
	a.offset.Y += (a.target.Y - a.offset.Y) * k
}

func (a *Animator) sprite(x, y float64, p *Particle) Sprite {
	return Sprite{
		X:         x,
		Y:         y,
		R:         p.R,
		Tint:      p.Tint,
		Highlight: a.params.Highlight,
		EdgeAlpha: a.params.EdgeAlpha,
	}
}
