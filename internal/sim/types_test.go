package sim

import "testing"

func TestParseEvent(t *testing.T) {
	tests := []struct {
		in   string
		want Event
	}{
		{"hide@10", Event{Frame: 10, Kind: Hide}},
		{"show@20", Event{Frame: 20, Kind: Show}},
		{"pointer@3:640,360", Event{Frame: 3, Kind: Pointer, A: 640, B: 360}},
		{"tilt@5:12.5,60", Event{Frame: 5, Kind: Tilt, A: 12.5, B: 60}},
		{"resize@7:320, 200", Event{Frame: 7, Kind: Resize, A: 320, B: 200}},
		{"dpr@2:2", Event{Frame: 2, Kind: DPR, A: 2}},
		{"STOP@9", Event{Frame: 9, Kind: Stop}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEvent(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseEventErrors(t *testing.T) {
	for _, in := range []string{
		"hide",
		"hide@0",
		"hide@x",
		"jump@3",
		"pointer@3",
		"pointer@3:1",
		"hide@3:1",
		"tilt@3:a,b",
	} {
		if _, err := ParseEvent(in); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}

func TestResultSeries(t *testing.T) {
	r := &Result{Samples: []FrameSample{
		{OffsetX: 1, OffsetY: 2, TrackY: 10},
		{OffsetX: 3, OffsetY: 4, TrackY: 9},
	}}

	xs, ys := r.Offsets()
	if xs[1] != 3 || ys[0] != 2 {
		t.Errorf("unexpected offsets %v %v", xs, ys)
	}
	if y := r.TrackY(); y[0] != 10 || y[1] != 9 {
		t.Errorf("unexpected track %v", y)
	}
}

func TestEventStringRoundTrip(t *testing.T) {
	for _, in := range []string{"hide@4", "pointer@3:640.5,360", "dpr@2:1.5", "resize@9:320,200"} {
		ev, err := ParseEvent(in)
		if err != nil {
			t.Fatal(err)
		}
		if ev.String() != in {
			t.Errorf("expected %q, got %q", in, ev.String())
		}
	}
}

func TestParseEvents(t *testing.T) {
	evs, err := ParseEvents([]string{"hide@10", "show@20"})
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 2 || evs[0].Kind != Hide || evs[1].Frame != 20 {
		t.Errorf("unexpected events %v", evs)
	}

	if _, err := ParseEvents([]string{"hide@10", "nope@1"}); err == nil {
		t.Error("expected error")
	}
}
