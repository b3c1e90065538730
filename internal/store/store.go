// Package store persists propagation runs: one directory per run with
// JSON metadata and the recorded trajectory as CSV.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/dlai211/acts/internal/actions"
	"github.com/dlai211/acts/internal/propagator"
	"github.com/dlai211/acts/internal/track"
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
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Stepper       string    `json:"stepper"`
	Field         string    `json:"field"`
	Direction     string    `json:"direction"`
	MaxStepSize   float64   `json:"max_step_size"`
	MaxPathLength float64   `json:"max_path_length"`
	Status        string    `json:"status"`
	Steps         uint      `json:"steps"`
	PathLength    float64   `json:"path_length"`
}

// Save writes metadata and the recorded trajectory of one run and returns
// the run id.
func (s *Store) Save(stepperName, fieldKind string, opts propagator.Options, result *propagator.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", stepperName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Timestamp:     time.Now(),
		Stepper:       stepperName,
		Field:         fieldKind,
		Direction:     opts.Direction.String(),
		MaxStepSize:   opts.MaxStepSize,
		MaxPathLength: opts.MaxPathLength,
		Status:        result.Status.String(),
		Steps:         result.Steps,
		PathLength:    result.PathLength,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	traj := actions.Trajectory(result)
	if len(traj) == 0 {
		return runID, nil
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"path", "x", "y", "z", "p"}); err != nil {
		return "", err
	}
	for _, step := range traj {
		row := []string{
			strconv.FormatFloat(step.PathLength, 'g', -1, 64),
			strconv.FormatFloat(step.Position.X, 'g', -1, 64),
			strconv.FormatFloat(step.Position.Y, 'g', -1, 64),
			strconv.FormatFloat(step.Position.Z, 'g', -1, 64),
			strconv.FormatFloat(step.Momentum, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// LoadTrajectory reads back the recorded trajectory of a run.
func (s *Store) LoadTrajectory(runID string) ([]actions.TrajectoryStep, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	steps := make([]actions.TrajectoryStep, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 5 {
			continue
		}
		vals := make([]float64, 5)
		ok := true
		for i := range vals {
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		steps = append(steps, actions.TrajectoryStep{
			PathLength: vals[0],
			Position:   track.Vector3{X: vals[1], Y: vals[2], Z: vals[3]},
			Momentum:   vals[4],
		})
	}
	return steps, nil
}
