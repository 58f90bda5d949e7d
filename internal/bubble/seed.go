package bubble

import "math"

// seed rebuilds the particle set for the current surface size.
func (a *Animator) seed() {
	n := a.params.Count(a.env.DeviceClass())
	if n < 0 {
		n = 0
	}
	if cap(a.particles) >= n {
		a.particles = a.particles[:n]
	} else {
		a.particles = make([]Particle, n)
	}
	for i := range a.particles {
		a.particles[i] = Particle{}
		a.spawn(&a.particles[i], true)
	}
	a.sprites = a.sprites[:0]
	a.seeds++
}

// spawn fills every field of p from the variant's ranges. Initial spawns use
// the InitialY band; recycled bubbles enter from below the bottom edge.
func (a *Animator) spawn(p *Particle, initial bool) {
	w, h := float64(a.w), float64(a.h)
	pr := a.params

	if pr.Variant == Parallax {
		p.X = a.rng.Float64() * w
		p.Y = pr.InitialY.Sample(a.rng) * h
		p.Depth = pr.Depth.Sample(a.rng)
		p.R = pr.Radius.Sample(a.rng) * a.dpr * p.Depth
		p.Speed = pr.BobSpeed.Sample(a.rng)
		p.Phase = a.rng.Float64() * 2 * math.Pi
		p.Tint = a.rng.Float64()
		return
	}

	p.X = a.rng.Float64() * w
	if initial {
		p.Y = pr.InitialY.Sample(a.rng) * h
	} else {
		p.Y = h + a.rng.Float64()*h*pr.SpawnBand
	}
	p.R = pr.Radius.Sample(a.rng) * a.dpr
	p.VY = pr.Speed.Sample(a.rng) * a.dpr
	p.VX = (a.rng.Float64() - 0.5) * pr.Drift * a.dpr
	p.Tint = a.rng.Float64()
}

func (a *Animator) recycle(p *Particle) {
	a.spawn(p, false)
}
