package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/lorenzgif/internal/physics"
)

func testMeta(id string) RunMetadata {
	return RunMetadata{
		ID:         id,
		Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Params:     physics.Classic(),
		Initial:    [3]float64{0.1, 0, 0},
		Start:      1,
		End:        60,
		Points:     2,
		ChunkStep:  20,
		Integrator: "rk45",
		Frames:     1,
		Animation:  "chaotic.gif",
		Metrics:    map[string]float64{"max_z": 1.5},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	times := []float64{1.0, 1.01}
	states := [][]float64{{0.1, 0, 0}, {0.09, 0.03, 0.0001}}

	if err := st.Save(testMeta("chaotic"), times, states); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load("chaotic")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Params.Rho != 28 {
		t.Errorf("expected rho 28, got %f", meta.Params.Rho)
	}
	if meta.Metrics["max_z"] != 1.5 {
		t.Errorf("expected max_z 1.5, got %f", meta.Metrics["max_z"])
	}

	gotStates, gotTimes, err := st.LoadStates("chaotic")
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(gotStates) != 2 || len(gotTimes) != 2 {
		t.Fatalf("expected 2 rows, got %d states, %d times", len(gotStates), len(gotTimes))
	}
	if gotStates[1][1] != 0.03 || gotTimes[1] != 1.01 {
		t.Errorf("round trip mismatch: %v at %v", gotStates[1], gotTimes[1])
	}
}

func TestStoreSave_LengthMismatch(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Save(testMeta("x"), []float64{0}, nil); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(filepath.Join(tmpDir, "out"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, id := range []string{"steady", "chaotic"} {
		if err := st.Save(testMeta(id), []float64{0}, [][]float64{{1, 2, 3}}); err != nil {
			t.Fatalf("save %s failed: %v", id, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "out", "stray"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "chaotic" || runs[1].ID != "steady" {
		t.Errorf("expected [chaotic steady], got %+v", runs)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Save(testMeta("onset"), []float64{0}, [][]float64{{1, 2, 3}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, trajectoryFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, "onset", name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, testMeta("chaotic"), []float64{0}, [][]float64{{1, 2, 3}}); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.Run.ID != "chaotic" || len(data.States) != 1 {
		t.Errorf("unexpected export: %+v", data)
	}
}
