// Package viz renders propagated trajectories in the terminal.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/dlai211/acts/internal/actions"
)

// Coordinate picks one trajectory component for plotting.
func Coordinate(steps []actions.TrajectoryStep, name string) []float64 {
	data := make([]float64, len(steps))
	for i, s := range steps {
		switch name {
		case "x":
			data[i] = s.Position.X
		case "y":
			data[i] = s.Position.Y
		case "z":
			data[i] = s.Position.Z
		case "p":
			data[i] = s.Momentum
		default:
			data[i] = s.PathLength
		}
	}
	return data
}

// PlotTrajectory renders x, y and z against the step index.
func PlotTrajectory(steps []actions.TrajectoryStep, width, height int) string {
	var b strings.Builder
	for _, coord := range []string{"x", "y", "z"} {
		graph := asciigraph.Plot(Coordinate(steps, coord),
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(fmt.Sprintf("%s vs step", coord)),
		)
		b.WriteString(graph)
		b.WriteString("\n\n")
	}
	return b.String()
}
