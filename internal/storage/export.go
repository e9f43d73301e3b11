package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/dotswarm/internal/experiment"
)

type ExportData struct {
	Run       RunMetadata           `json:"run"`
	Times     []float64             `json:"times"`
	Series    map[string][]float64  `json:"series"`
	Snapshots []experiment.Snapshot `json:"snapshots"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	snaps, err := s.LoadSnapshots(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{
		Run:       *meta,
		Times:     times,
		Series:    series,
		Snapshots: snaps,
	})
}
