package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/spindown/internal/trace"
)

type ExportData struct {
	ID              string             `json:"id"`
	Label           string             `json:"label"`
	InitialVelocity float64            `json:"initial_velocity"`
	Ticks           int                `json:"ticks"`
	Settled         bool               `json:"settled"`
	Rotation        float64            `json:"rotation"`
	Times           []float64          `json:"times"`
	Deltas          []float64          `json:"deltas"`
	Velocities      []float64          `json:"velocities"`
	Metrics         map[string]float64 `json:"metrics"`
}

func exportData(meta *RunMetadata, tr *trace.Trace) ExportData {
	return ExportData{
		ID:              meta.ID,
		Label:           meta.Label,
		InitialVelocity: meta.InitialVelocity,
		Ticks:           tr.Ticks,
		Settled:         tr.Settled,
		Rotation:        tr.Rotation,
		Times:           tr.Times,
		Deltas:          tr.Deltas,
		Velocities:      tr.Velocities,
		Metrics:         meta.Metrics,
	}
}

func ExportJSON(w io.Writer, meta *RunMetadata, tr *trace.Trace) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(meta, tr))
}

func ExportJSONFile(path string, meta *RunMetadata, tr *trace.Trace) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, tr)
}
