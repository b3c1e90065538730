package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dlai211/acts/internal/actions"
	"github.com/dlai211/acts/internal/config"
	"github.com/dlai211/acts/internal/propagator"
	"github.com/dlai211/acts/internal/sequencer"
	"github.com/dlai211/acts/internal/store"
	"github.com/dlai211/acts/internal/surface"
	"github.com/dlai211/acts/internal/track"
	"github.com/dlai211/acts/internal/viz"
)

var (
	dataDir     string
	configFile  string
	stepperName string
	fieldKind   string
	bz          float64
	direction   string
	maxSteps    uint
	maxStep     float64
	maxPath     float64
	momentum    float64
	charge      float64
	phi         float64
	targetR     float64
	numTracks   int
	workers     int
	verbose     bool
)

func main() {
	logger := log.New(os.Stderr)

	rootCmd := &cobra.Command{
		Use:   "trackprop",
		Short: "particle track propagation through magnetic fields",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".trackprop", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "propagate a single track",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(cmd, logger)
		},
	}
	addPropagationFlags(runCmd)

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "propagate a fan of tracks through the sequencer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, logger)
		},
	}
	addPropagationFlags(batchCmd)
	batchCmd.Flags().IntVar(&numTracks, "tracks", 16, "number of tracks, fanned in phi")
	batchCmd.Flags().Float64Var(&targetR, "target-radius", 0, "cylinder target radius in mm (0: no target)")
	batchCmd.Flags().IntVar(&workers, "workers", 4, "worker goroutines")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a propagation step by step",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd)
		},
	}
	addPropagationFlags(liveCmd)

	rootCmd.AddCommand(runCmd, batchCmd, listCmd, plotCmd, exportCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func addPropagationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&stepperName, "stepper", "rk4", "stepper (line, euler, rk4)")
	cmd.Flags().StringVar(&fieldKind, "field", "constant", "field kind (zero, constant, gradient)")
	cmd.Flags().Float64Var(&bz, "bz", 2.0, "field z component in tesla")
	cmd.Flags().StringVar(&direction, "direction", "forward", "propagation direction")
	cmd.Flags().UintVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "step budget")
	cmd.Flags().Float64Var(&maxStep, "max-step-size", 10*track.Millimeter, "step size bound in mm")
	cmd.Flags().Float64Var(&maxPath, "max-path", 1*track.Meter, "path budget in mm")
	cmd.Flags().Float64Var(&momentum, "momentum", config.DefaultMomentum, "momentum in GeV")
	cmd.Flags().Float64Var(&charge, "charge", -1, "charge in e")
	cmd.Flags().Float64Var(&phi, "phi", 0, "initial azimuthal angle in rad")
}

// loadSetup resolves the config file plus flags into a stepper, options and
// start parameters.
func loadSetup(cmd *cobra.Command) (*config.Config, propagator.Stepper, propagator.Options, track.Parameters, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, propagator.Options{}, track.Parameters{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override the file
	if cmd.Flags().Changed("stepper") || cfg.Stepper == "" {
		cfg.Stepper = stepperName
	}
	if cmd.Flags().Changed("field") {
		cfg.Field.Kind = fieldKind
	}
	if cmd.Flags().Changed("bz") {
		cfg.Field.Bz = bz
	}
	if cmd.Flags().Changed("direction") {
		cfg.Direction = direction
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("max-step-size") {
		cfg.MaxStepSize = maxStep
	}
	if cmd.Flags().Changed("max-path") {
		cfg.MaxPathLength = maxPath
	}
	if cmd.Flags().Changed("momentum") {
		cfg.Start.Momentum = momentum
	}
	if cmd.Flags().Changed("charge") {
		cfg.Start.Charge = charge
	}
	if cmd.Flags().Changed("phi") {
		cfg.Start.DX = math.Cos(phi)
		cfg.Start.DY = math.Sin(phi)
	}

	registry := config.NewRegistry()
	bfield, err := registry.GetField(cfg.Field)
	if err != nil {
		return nil, nil, propagator.Options{}, track.Parameters{}, err
	}
	stp, err := registry.GetStepper(cfg.Stepper, bfield)
	if err != nil {
		return nil, nil, propagator.Options{}, track.Parameters{}, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, nil, propagator.Options{}, track.Parameters{}, err
	}
	return cfg, stp, opts, cfg.StartParameters(), nil
}

func runTrack(cmd *cobra.Command, logger *log.Logger) error {
	cfg, stp, opts, start, err := loadSetup(cmd)
	if err != nil {
		return err
	}
	opts.Actions = propagator.ActionList{actions.TrajectoryRecorder{}}

	prop := propagator.New(stp)

	began := time.Now()
	result, err := prop.Propagate(start, opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(began)

	logger.Info("propagation finished",
		"status", result.Status, "steps", result.Steps,
		"path", fmt.Sprintf("%.3f mm", result.PathLength), "elapsed", elapsed)

	if !result.OK() {
		logger.Warn("no end parameters produced")
		return nil
	}

	end := result.EndParameters
	fmt.Printf("end position: (%.3f, %.3f, %.3f) mm\n", end.Position.X, end.Position.Y, end.Position.Z)
	fmt.Printf("end direction: (%.4f, %.4f, %.4f)\n", end.Direction.X, end.Direction.Y, end.Direction.Z)

	runID, err := saveRun(cfg, opts, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runBatch(cmd *cobra.Command, logger *log.Logger) error {
	cfg, stp, opts, start, err := loadSetup(cmd)
	if err != nil {
		return err
	}

	// fan the start direction in phi
	starts := make([]track.Parameters, numTracks)
	for i := range starts {
		a := 2 * math.Pi * float64(i) / float64(numTracks)
		s := start
		s.Direction = track.Vector3{X: math.Cos(a), Y: math.Sin(a)}
		starts[i] = s
	}

	prop := propagator.New(stp)
	optsFn := func() propagator.Options {
		o := opts
		o.Actions = propagator.ActionList{actions.TrajectoryRecorder{}}
		return o
	}

	w := cfg.Workers
	if cmd.Flags().Changed("workers") || w < 1 {
		w = workers
	}
	seq := sequencer.New(prop, optsFn, w, logger)

	var (
		results []*propagator.Result
		sum     sequencer.Summary
	)
	if targetR > 0 {
		target := surface.NewCylinder(targetR)
		results, sum, err = seq.RunTo(context.Background(), starts, target)
	} else {
		results, sum, err = seq.Run(context.Background(), starts)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRACK\tSTATUS\tSTEPS\tPATH [mm]")
	for i, res := range results {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.3f\n", i, res.Status, res.Steps, res.PathLength)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%s/%s: %d tracks, %d succeeded, %d failed, %d out of budget\n",
		cfg.Stepper, cfg.Field.Kind, sum.Tracks, sum.Succeeded, sum.Failed, sum.OutOfBudget)
	return nil
}

func newStore() *store.Store {
	return store.New(dataDir)
}

func saveRun(cfg *config.Config, opts propagator.Options, result *propagator.Result) (string, error) {
	st := newStore()
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(cfg.Stepper, cfg.Field.Kind, opts, result)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := newStore().List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTEPPER\tFIELD\tDIR\tSTATUS\tSTEPS\tPATH [mm]")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.2f\n",
			run.ID, run.Stepper, run.Field, run.Direction, run.Status, run.Steps, run.PathLength)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := newStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no trajectory recorded for %s", args[0])
	}

	fmt.Printf("run: %s\nstepper: %s\nsamples: %d\n\n", meta.ID, meta.Stepper, len(traj))
	fmt.Print(viz.PlotTrajectory(traj, 80, 10))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	return newStore().ExportJSON(args[0], "-")
}

func runLive(cmd *cobra.Command) error {
	_, stp, opts, start, err := loadSetup(cmd)
	if err != nil {
		return err
	}

	model := viz.NewLive(stp, start, float64(opts.Direction)*opts.MaxStepSize, opts.MaxPathLength)
	_, err = tea.NewProgram(model).Run()
	return err
}
