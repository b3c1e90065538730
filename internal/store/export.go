package store

import (
	"encoding/json"
	"os"

	"github.com/dlai211/acts/internal/actions"
)

type ExportData struct {
	Metadata   RunMetadata              `json:"metadata"`
	Trajectory []actions.TrajectoryStep `json:"trajectory,omitempty"`
}

// ExportJSON writes a run, including its trajectory, to the given writer
// target path; "-" writes to stdout.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	traj, err := s.LoadTrajectory(runID)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	data := ExportData{Metadata: *meta, Trajectory: traj}

	out := os.Stdout
	if path != "-" && path != "" {
		out, err = os.Create(path)
		if err != nil {
			return err
		}
		defer out.Close()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
