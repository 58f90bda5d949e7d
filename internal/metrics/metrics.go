package metrics

import "github.com/san-kum/neonbubbles/internal/bubble"

// Metric accumulates a single number over the frames it observes. Every
// metric is a bubble.Observer, so it can be attached with bubble.WithObserver.
type Metric interface {
	bubble.Observer
	Name() string
	Value() float64
	Reset()
}

// Standard returns the metrics recorded for every headless run of a variant
// configured with p.
func Standard(p bubble.Params) []Metric {
	return []Metric{
		NewRecycleCount(),
		NewRecycleRate(),
		NewMeanRadius(),
		NewDrawCalls(),
		NewInBounds(p),
		NewSettleFrame(DefaultSettleTolerance),
	}
}

// Names lists the names of the standard metrics in reporting order.
func Names() []string {
	std := Standard(bubble.Params{})
	names := make([]string, len(std))
	for i, m := range std {
		names[i] = m.Name()
	}
	return names
}
