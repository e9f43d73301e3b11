package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/dotswarm/internal/experiment"
	"github.com/san-kum/dotswarm/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	metricsFile   = "metrics.csv"
	snapshotsFile = "snapshots.csv"
)

var ErrNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	Particles     int                `json:"particles"`
	Width         float64            `json:"width"`
	Height        float64            `json:"height"`
	Dt            float64            `json:"dt"`
	Frames        int                `json:"frames"`
	SnapshotEvery int                `json:"snapshot_every"`
	Backend       string             `json:"backend"`
	WallSeconds   float64            `json:"wall_seconds"`
	Metrics       map[string]float64 `json:"metrics"`
}

// NewMetadata describes a finished run. The ID is assigned by Save.
func NewMetadata(cfg experiment.Config, res *experiment.Result) RunMetadata {
	return RunMetadata{
		Timestamp:     time.Now(),
		Seed:          res.Seed,
		Particles:     cfg.Particles,
		Width:         cfg.Bounds.Width,
		Height:        cfg.Bounds.Height,
		Dt:            cfg.Dt,
		Frames:        res.Frames,
		SnapshotEvery: cfg.SnapshotEvery,
		Backend:       cfg.Backend,
		WallSeconds:   res.Wall.Seconds(),
		Metrics:       res.Final,
	}
}

func (m RunMetadata) Bounds() sim.Bounds {
	return sim.Bounds{Width: m.Width, Height: m.Height}
}

// Save writes a run directory holding metadata.json, metrics.csv and
// snapshots.csv and returns the run ID.
func (s *Store) Save(cfg experiment.Config, res *experiment.Result) (string, error) {
	meta := NewMetadata(cfg, res)
	meta.ID = fmt.Sprintf("swarm_%d_%d", res.Seed, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeMetrics(filepath.Join(runDir, metricsFile), res); err != nil {
		return "", err
	}
	if err := writeSnapshots(filepath.Join(runDir, snapshotsFile), res.Snapshots); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// createFile runs fn against a new file at path. A failed close is reported
// like a failed write.
func createFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeAndClose(f, fn)
}

func writeAndClose(f io.WriteCloser, fn func(io.Writer) error) error {
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeMetadata(path string, meta RunMetadata) error {
	return createFile(path, func(f io.Writer) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
}

func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeMetrics(path string, res *experiment.Result) error {
	return createFile(path, func(f io.Writer) error {
		return encodeMetrics(f, res)
	})
}

func encodeMetrics(f io.Writer, res *experiment.Result) error {
	w := csv.NewWriter(f)
	names := seriesNames(res.Series)

	if err := w.Write(append([]string{"frame", "time"}, names...)); err != nil {
		return err
	}

	for i, t := range res.Times {
		row := []string{strconv.Itoa(i + 1), formatFloat(t)}
		for _, name := range names {
			val := 0.0
			if i < len(res.Series[name]) {
				val = res.Series[name][i]
			}
			row = append(row, formatFloat(val))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeSnapshots(path string, snaps []experiment.Snapshot) error {
	return createFile(path, func(f io.Writer) error {
		return encodeSnapshots(f, snaps)
	})
}

func encodeSnapshots(f io.Writer, snaps []experiment.Snapshot) error {
	w := csv.NewWriter(f)
	if err := w.Write([]string{"frame", "time", "index", "x", "y", "dx", "dy"}); err != nil {
		return err
	}

	for _, snap := range snaps {
		frame, t := strconv.Itoa(snap.Frame), formatFloat(snap.Time)
		for i, p := range snap.Particles {
			row := []string{
				frame, t, strconv.Itoa(i),
				formatFloat(p.X), formatFloat(p.Y),
				formatFloat(p.DX), formatFloat(p.DY),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: parse %s metadata: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadSeries reads metrics.csv back into per-frame times and named series.
func (s *Store) LoadSeries(runID string) ([]float64, map[string][]float64, error) {
	records, err := s.readCSV(runID, metricsFile)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return []float64{}, map[string][]float64{}, nil
	}

	header := records[0]
	series := make(map[string][]float64, len(header))
	for _, name := range header[min(2, len(header)):] {
		series[name] = make([]float64, 0, len(records)-1)
	}
	times := make([]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for j := 2; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				val = 0
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}

	return times, series, nil
}

// LoadSnapshots reads snapshots.csv back, grouping rows by frame.
func (s *Store) LoadSnapshots(runID string) ([]experiment.Snapshot, error) {
	records, err := s.readCSV(runID, snapshotsFile)
	if err != nil {
		return nil, err
	}

	snaps := make([]experiment.Snapshot, 0)
	for i, record := range records {
		if i == 0 || len(record) != 7 {
			continue
		}
		vals, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", snapshotsFile, i+1, err)
		}

		frame := int(vals[0])
		if len(snaps) == 0 || snaps[len(snaps)-1].Frame != frame {
			snaps = append(snaps, experiment.Snapshot{Frame: frame, Time: vals[1]})
		}
		last := &snaps[len(snaps)-1]
		last.Particles = append(last.Particles, sim.Particle{
			X: vals[3], Y: vals[4], DX: vals[5], DY: vals[6],
		})
	}

	return snaps, nil
}

func parseRow(record []string) ([]float64, error) {
	vals := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
