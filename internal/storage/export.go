package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/neonbubbles/internal/sim"
)

type ExportData struct {
	Run     RunMetadata       `json:"run"`
	Frames  int               `json:"frames"`
	Samples []sim.FrameSample `json:"samples"`
}

func ExportJSON(path string, meta RunMetadata, samples []sim.FrameSample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, samples)
}

// WriteJSON is ExportJSON for an arbitrary writer, e.g. stdout.
func WriteJSON(w io.Writer, meta RunMetadata, samples []sim.FrameSample) error {
	data := ExportData{Run: meta, Frames: len(samples), Samples: samples}
	if data.Samples == nil {
		data.Samples = []sim.FrameSample{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// CopyFrames copies a run's frames.csv to w.
func (s *Store) CopyFrames(runID string, w io.Writer) error {
	f, err := os.Open(s.framesPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
