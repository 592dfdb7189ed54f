package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/spindown/internal/trace"
)

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tr, err := trace.Collect(5.0)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	metrics := map[string]float64{"total_rotation": tr.Rotation}
	runID, err := st.Save("flick", metrics, tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Label != "flick" {
		t.Errorf("expected label 'flick', got '%s'", meta.Label)
	}
	if meta.InitialVelocity != 5.0 {
		t.Errorf("expected initial velocity 5.0, got %v", meta.InitialVelocity)
	}
	if !meta.Settled {
		t.Error("expected settled run")
	}
	if meta.Ticks != tr.Ticks {
		t.Errorf("expected %d ticks, got %d", tr.Ticks, meta.Ticks)
	}
	if meta.Metrics["total_rotation"] != tr.Rotation {
		t.Errorf("expected rotation metric %v, got %v", tr.Rotation, meta.Metrics["total_rotation"])
	}
}

func TestStoreLoadTraceRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tr, err := trace.Collect(-3.0)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	runID, err := st.Save("backspin", nil, tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}

	if loaded.Ticks != tr.Ticks {
		t.Fatalf("expected %d ticks, got %d", tr.Ticks, loaded.Ticks)
	}
	for i := range tr.Deltas {
		if math.Abs(loaded.Deltas[i]-tr.Deltas[i]) > 1e-15 {
			t.Fatalf("tick %d: delta %v != %v", i+1, loaded.Deltas[i], tr.Deltas[i])
		}
		if math.Abs(loaded.Velocities[i]-tr.Velocities[i]) > 1e-15 {
			t.Fatalf("tick %d: velocity %v != %v", i+1, loaded.Velocities[i], tr.Velocities[i])
		}
	}
	if math.Abs(loaded.Rotation-tr.Rotation) > 1e-12 {
		t.Errorf("rotation %v != %v", loaded.Rotation, tr.Rotation)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	tr, err := trace.Collect(1.0)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if _, err := st.Save("wheel", nil, tr); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tr, err := trace.Collect(1.0)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	runID, err := st.Save("wheel", nil, tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "ticks.csv")); os.IsNotExist(err) {
		t.Error("ticks.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	tr, err := trace.Collect(2.0)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	meta := &RunMetadata{
		ID:              "wheel_1",
		Label:           "wheel",
		InitialVelocity: 2.0,
		Metrics:         map[string]float64{"predicted_ticks": float64(tr.Ticks)},
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, tr); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("exported JSON invalid: %v", err)
	}
	if data.ID != "wheel_1" {
		t.Errorf("expected id wheel_1, got %s", data.ID)
	}
	if len(data.Deltas) != tr.Ticks {
		t.Errorf("expected %d deltas, got %d", tr.Ticks, len(data.Deltas))
	}
}
