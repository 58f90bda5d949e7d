package sim

import "github.com/san-kum/neonbubbles/internal/config"

// NewFromConfig creates a runner for the variant, device and viewport a
// validated config describes.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Runner, error) {
	p, err := cfg.BubbleParams()
	if err != nil {
		return nil, err
	}
	env, err := cfg.Environment()
	if err != nil {
		return nil, err
	}
	return New(p, env, cfg.Viewport.Width, cfg.Viewport.Height, opts...), nil
}
