package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/neonbubbles/internal/sim"
)

const (
	metaFile   = "metadata.json"
	framesFile = "frames.csv"
)

var frameHeader = []string{
	"tick", "frame", "width", "height", "particles", "recycled",
	"offset_x", "offset_y", "target_x", "target_y",
	"mean_y", "track_x", "track_y", "track_r",
}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one saved run. Events are stored in the textual
// form sim.ParseEvent reads.
type RunMetadata struct {
	ID        string             `json:"id"`
	Variant   string             `json:"variant"`
	Preset    string             `json:"preset,omitempty"`
	Device    string             `json:"device"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Drawn     int                `json:"drawn"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	DPR       float64            `json:"dpr"`
	Events    []string           `json:"events,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the run under a fresh directory and returns its ID.
// ID, Timestamp, Ticks, Drawn, Events and Metrics are filled from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("storage: nil result")
	}
	if err := s.Init(); err != nil {
		return "", err
	}

	now := s.now()
	runID, runDir, err := s.newRunDir(meta.Variant, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Ticks = result.Ticks
	meta.Drawn = len(result.Samples)
	meta.Metrics = result.Metrics
	meta.Events = meta.Events[:0:0]
	for _, ev := range result.Events {
		meta.Events = append(meta.Events, ev.String())
	}

	if err := writeJSON(filepath.Join(runDir, metaFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Samples); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

// newRunDir creates <variant>_<unix> and appends a counter on collision.
func (s *Store) newRunDir(variant string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", variant, now.Unix())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, samples []sim.FrameSample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, s := range samples {
		if err := w.Write(frameRow(s)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func frameRow(s sim.FrameSample) []string {
	itoa := strconv.Itoa
	ftoa := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		itoa(s.Tick), itoa(s.Frame), itoa(s.Width), itoa(s.Height),
		itoa(s.Particles), itoa(s.Recycled),
		ftoa(s.OffsetX), ftoa(s.OffsetY), ftoa(s.TargetX), ftoa(s.TargetY),
		ftoa(s.MeanY), ftoa(s.TrackX), ftoa(s.TrackY), ftoa(s.TrackR),
	}
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metaFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrames reads frames.csv back. Rows that fail to parse are skipped.
func (s *Store) LoadFrames(runID string) ([]sim.FrameSample, error) {
	file, err := os.Open(s.framesPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.FrameSample{}, nil
	}

	out := make([]sim.FrameSample, 0, len(records)-1)
	for _, rec := range records[1:] {
		s, ok := parseRow(rec)
		if !ok {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (s *Store) framesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, framesFile)
}

func parseRow(rec []string) (sim.FrameSample, bool) {
	if len(rec) != len(frameHeader) {
		return sim.FrameSample{}, false
	}
	ints := make([]int, 6)
	for i := range ints {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			return sim.FrameSample{}, false
		}
		ints[i] = v
	}
	floats := make([]float64, len(rec)-6)
	for i := range floats {
		v, err := strconv.ParseFloat(rec[6+i], 64)
		if err != nil {
			return sim.FrameSample{}, false
		}
		floats[i] = v
	}
	return sim.FrameSample{
		Tick: ints[0], Frame: ints[1], Width: ints[2], Height: ints[3],
		Particles: ints[4], Recycled: ints[5],
		OffsetX: floats[0], OffsetY: floats[1], TargetX: floats[2], TargetY: floats[3],
		MeanY: floats[4], TrackX: floats[5], TrackY: floats[6], TrackR: floats[7],
	}, true
}

// ParsedEvents parses the stored events of a run.
func (m *RunMetadata) ParsedEvents() ([]sim.Event, error) {
	out := make([]sim.Event, 0, len(m.Events))
	for _, s := range m.Events {
		ev, err := sim.ParseEvent(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}
