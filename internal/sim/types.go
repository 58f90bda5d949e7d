package sim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

type EventKind int

const (
	Pointer EventKind = iota
	Tilt
	Hide
	Show
	Resize
	DPR
	Stop
	Start
)

var eventNames = [...]string{"pointer", "tilt", "hide", "show", "resize", "dpr", "stop", "start"}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is a host input applied before the given frame tick. A and B carry
// the kind's arguments: client x/y for pointer, gamma/beta for tilt, CSS
// width/height for resize, the ratio in A for dpr.
type Event struct {
	Frame int
	Kind  EventKind
	A, B  float64
}

// String formats the event the way ParseEvent reads it.
func (e Event) String() string {
	head := fmt.Sprintf("%s@%d", e.Kind, e.Frame)
	a := strconv.FormatFloat(e.A, 'g', -1, 64)
	b := strconv.FormatFloat(e.B, 'g', -1, 64)
	switch e.Kind {
	case Pointer, Tilt, Resize:
		return head + ":" + a + "," + b
	case DPR:
		return head + ":" + a
	}
	return head
}

// ParseEvent reads "kind@frame" or "kind@frame:a,b", e.g. "pointer@30:640,360".
func ParseEvent(s string) (Event, error) {
	head, args, _ := strings.Cut(s, ":")
	name, at, ok := strings.Cut(head, "@")
	if !ok {
		return Event{}, fmt.Errorf("event %q: missing @frame", s)
	}

	kind := -1
	for i, n := range eventNames {
		if n == strings.ToLower(name) {
			kind = i
		}
	}
	if kind < 0 {
		return Event{}, fmt.Errorf("event %q: unknown kind %q", s, name)
	}

	frame, err := strconv.Atoi(at)
	if err != nil || frame < 1 {
		return Event{}, fmt.Errorf("event %q: bad frame %q", s, at)
	}
	ev := Event{Frame: frame, Kind: EventKind(kind)}

	want := 0
	switch ev.Kind {
	case Pointer, Tilt, Resize:
		want = 2
	case DPR:
		want = 1
	}
	var vals []float64
	if args != "" {
		for _, f := range strings.Split(args, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return Event{}, fmt.Errorf("event %q: %w", s, err)
			}
			vals = append(vals, v)
		}
	}
	if len(vals) != want {
		return Event{}, fmt.Errorf("event %q: %s takes %d arguments, got %d", s, ev.Kind, want, len(vals))
	}
	if want > 0 {
		ev.A = vals[0]
	}
	if want > 1 {
		ev.B = vals[1]
	}
	return ev, nil
}

// ParseEvents parses every string with ParseEvent.
func ParseEvents(ss []string) ([]Event, error) {
	out := make([]Event, 0, len(ss))
	for _, s := range ss {
		ev, err := ParseEvent(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

type Config struct {
	// Frames is the number of display refreshes to simulate.
	Frames int
	Seed   int64
	// Track is the particle index recorded in every sample.
	Track  int
	Events []Event
}

// FrameSample is one drawn frame, flattened for storage and plotting.
type FrameSample struct {
	Tick      int     `json:"tick"`
	Frame     int     `json:"frame"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Particles int     `json:"particles"`
	Recycled  int     `json:"recycled"`
	OffsetX   float64 `json:"offset_x"`
	OffsetY   float64 `json:"offset_y"`
	TargetX   float64 `json:"target_x"`
	TargetY   float64 `json:"target_y"`
	MeanY     float64 `json:"mean_y"`
	TrackX    float64 `json:"track_x"`
	TrackY    float64 `json:"track_y"`
	TrackR    float64 `json:"track_r"`
}

type Result struct {
	Variant bubble.Variant
	Samples []FrameSample
	Metrics map[string]float64
	// Ticks is the number of refreshes simulated, drawn or not.
	Ticks  int
	Seeds  int
	Final  []bubble.Sprite
	Events []Event
}

// Offsets returns the recorded parallax offset as two series.
func (r *Result) Offsets() (xs, ys []float64) {
	xs = make([]float64, len(r.Samples))
	ys = make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		xs[i], ys[i] = s.OffsetX, s.OffsetY
	}
	return xs, ys
}

// TrackY returns the vertical position of the tracked bubble per frame.
func (r *Result) TrackY() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.TrackY
	}
	return out
}
