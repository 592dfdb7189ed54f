// Package storage persists recorded spin-down runs: one directory per run
// with JSON metadata and the tick series as CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/spindown/internal/trace"
)

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
	ID              string             `json:"id"`
	Label           string             `json:"label"`
	Timestamp       time.Time          `json:"timestamp"`
	InitialVelocity float64            `json:"initial_velocity"`
	Ticks           int                `json:"ticks"`
	Settled         bool               `json:"settled"`
	Rotation        float64            `json:"rotation"`
	Metrics         map[string]float64 `json:"metrics"`
}

func (s *Store) Save(label string, metrics map[string]float64, tr *trace.Trace) (string, error) {
	runID := fmt.Sprintf("%s_%d", label, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Label:           label,
		Timestamp:       time.Now(),
		InitialVelocity: tr.InitialVelocity,
		Ticks:           tr.Ticks,
		Settled:         tr.Settled,
		Rotation:        tr.Rotation,
		Metrics:         metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "ticks.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "delta", "velocity"}); err != nil {
		return "", err
	}

	for i := range tr.Deltas {
		row := []string{
			strconv.FormatFloat(tr.Times[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Deltas[i], 'g', 17, 64),
			strconv.FormatFloat(tr.Velocities[i], 'g', 17, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrace reads the tick series of a stored run back into a Trace.
func (s *Store) LoadTrace(runID string) (*trace.Trace, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	csvPath := filepath.Join(s.baseDir, runID, "ticks.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := &trace.Trace{
		InitialVelocity: meta.InitialVelocity,
		Settled:         meta.Settled,
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		delta, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		vel, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}

		tr.Times = append(tr.Times, t)
		tr.Deltas = append(tr.Deltas, delta)
		tr.Velocities = append(tr.Velocities, vel)
		tr.Rotation += delta
		tr.Ticks++
	}

	return tr, nil
}
