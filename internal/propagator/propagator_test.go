package propagator_test

import (
	"errors"
	"math"
	"testing"

	"github.com/dlai211/acts/internal/field"
	"github.com/dlai211/acts/internal/propagator"
	"github.com/dlai211/acts/internal/stepper"
	"github.com/dlai211/acts/internal/surface"
	"github.com/dlai211/acts/internal/track"
)

func forwardX(p float64) track.Parameters {
	return track.Parameters{
		Position:  track.Vector3{},
		Direction: track.Vector3{X: 1},
		Momentum:  p,
		Charge:    -1,
	}
}

// recording action used by the ordering and slot tests
type recordAction struct {
	id    string
	calls int
	last  track.Vector3
}

func (a *recordAction) ID() string { return a.id }
func (a *recordAction) Do(c *propagator.Cache, r *propagator.Result) {
	a.calls++
	a.last = c.Pos
	r.Set(a.id, a.calls)
}

// checkAction verifies it observes the state left by a preceding action in
// the same step.
type checkAction struct {
	id       string
	prev     *recordAction
	calls    int
	orderErr bool
}

func (a *checkAction) ID() string { return a.id }
func (a *checkAction) Do(c *propagator.Cache, r *propagator.Result) {
	a.calls++
	if a.prev.calls != a.calls {
		a.orderErr = true
	}
}

// thresholdAborter fires once the step count reaches a threshold.
type thresholdAborter struct {
	after uint
	fired bool
}

func (a *thresholdAborter) Check(r *propagator.Result, c *propagator.Cache) bool {
	if r.Steps >= a.after {
		a.fired = true
		return true
	}
	return false
}

// countingAborter never fires, it only counts evaluations.
type countingAborter struct {
	calls int
}

func (a *countingAborter) Check(r *propagator.Result, c *propagator.Cache) bool {
	a.calls++
	return false
}

func TestPropagateStraightLine(t *testing.T) {
	prop := propagator.New(stepper.NewLine())

	opts := propagator.DefaultOptions()
	opts.MaxStepSize = 1 * track.Millimeter
	opts.MaxPathLength = 10 * track.Millimeter

	res, err := prop.Propagate(forwardX(1*track.GeV), opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}

	if res.Status != propagator.StatusSuccess {
		t.Fatalf("expected success, got %v", res.Status)
	}
	if !res.OK() {
		t.Error("expected valid result")
	}
	if res.Steps != 10 {
		t.Errorf("expected 10 steps, got %d", res.Steps)
	}
	if math.Abs(res.PathLength-10) > opts.TargetTolerance {
		t.Errorf("expected path length 10, got %f", res.PathLength)
	}
	if math.Abs(res.EndParameters.Position.X-10) > opts.TargetTolerance {
		t.Errorf("expected end x=10, got %f", res.EndParameters.Position.X)
	}
}

func TestPropagateMaxStepsExhausted(t *testing.T) {
	prop := propagator.New(stepper.NewLine())

	opts := propagator.DefaultOptions()
	opts.MaxStepSize = 1 * track.Millimeter
	opts.MaxPathLength = 10 * track.Millimeter
	opts.MaxSteps = 5

	res, err := prop.Propagate(forwardX(1*track.GeV), opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}

	if res.Status == propagator.StatusSuccess {
		t.Error("expected non-success on exhausted step budget")
	}
	if res.EndParameters != nil {
		t.Error("expected no end parameters")
	}
	if res.Steps != 5 {
		t.Errorf("expected 5 steps, got %d", res.Steps)
	}
	if res.OK() {
		t.Error("result must not be valid")
	}
}

func TestPropagateZeroPathBudget(t *testing.T) {
	prop := propagator.New(stepper.NewLine())

	opts := propagator.DefaultOptions()
	opts.MaxPathLength = 0

	res, err := prop.Propagate(forwardX(1*track.GeV), opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}

	if res.Status != propagator.StatusFailure {
		t.Errorf("expected failure, got %v", res.Status)
	}
	if res.Steps != 0 {
		t.Errorf("expected zero steps, got %d", res.Steps)
	}
	if res.EndParameters != nil {
		t.Error("expected no end parameters")
	}
}

func TestPropagateZeroMaxSteps(t *testing.T) {
	line := stepper.NewLine()
	prop := propagator.New(line)

	opts := propagator.DefaultOptions()
	opts.MaxSteps = 0
	opts.MaxPathLength = 10 * track.Millimeter

	res, err := prop.Propagate(forwardX(1*track.GeV), opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}

	if res.Status != propagator.StatusInProgress {
		t.Errorf("expected in_progress, got %v", res.Status)
	}
	if res.Steps != 0 || res.PathLength != 0 {
		t.Errorf("expected no advance, got steps=%d path=%f", res.Steps, res.PathLength)
	}
}

func TestPropagateBackward(t *testing.T) {
	prop := propagator.New(stepper.NewLine())

	opts := propagator.DefaultOptions()
	opts.Direction = propagator.Backward
	opts.MaxStepSize = 1 * track.Millimeter
	opts.MaxPathLength = 10 * track.Millimeter

	res, err := prop.Propagate(forwardX(1*track.GeV), opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}

	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Status)
	}
	if math.Abs(res.PathLength+10) > opts.TargetTolerance {
		t.Errorf("expected path length -10, got %f", res.PathLength)
	}
	if math.Abs(res.EndParameters.Position.X+10) > opts.TargetTolerance {
		t.Errorf("expected end x=-10, got %f", res.EndParameters.Position.X)
	}
}

func TestActionOrdering(t *testing.T) {
	first := &recordAction{id: "first"}
	second := &checkAction{id: "second", prev: first}

	prop := propagator.New(stepper.NewLine())
	opts := propagator.DefaultOptions()
	opts.MaxStepSize = 1 * track.Millimeter
	opts.MaxPathLength = 5 * track.Millimeter
	opts.Actions = propagator.ActionList{first, second}

	res, err := prop.Propagate(forwardX(1*track.GeV), opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Status)
	}
	if second.orderErr {
		t.Error("second action ran before first within a step")
	}
	if first.calls != second.calls {
		t.Errorf("actions saw different step counts: %d vs %d", first.calls, second.calls)
	}
	if v, ok := res.Get("first"); !ok || v.(int) != first.calls {
		t.Errorf("slot mismatch: got %v, want %d", v, first.calls)
	}
}

func TestAbortShortCircuit(t *testing.T) {
	stop := &thresholdAborter{after: 2}
	counter := &countingAborter{}

	prop := propagator.New(stepper.NewLine())
	opts := propagator.DefaultOptions()
	opts.MaxStepSize = 1 * track.Millimeter
	opts.Aborters = propagator.AbortList{stop, counter}

	res, err := prop.Propagate(forwardX(1*track.GeV), opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}

	if !stop.fired {
		t.Fatal("expected first aborter to fire")
	}
	// the counter is only evaluated on steps where the first aborter
	// returned false
	expected := int(res.Steps) - 1
	if counter.calls != expected {
		t.Errorf("expected %d evaluations of second aborter, got %d", expected, counter.calls)
	}
}

func TestUserAbortStopsLoop(t *testing.T) {
	stop := &thresholdAborter{after: 3}

	prop := propagator.New(stepper.NewLine())
	opts := propagator.DefaultOptions()
	opts.MaxStepSize = 1 * track.Millimeter
	opts.Aborters = propagator.AbortList{stop}

	res, err := prop.Propagate(forwardX(1*track.GeV), opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Status)
	}
	if res.Steps != 4 {
		t.Errorf("expected 4 steps (terminating step counted), got %d", res.Steps)
	}
}

func TestTargetReachedWithEmptyLists(t *testing.T) {
	prop := propagator.New(stepper.NewLine())

	opts := propagator.DefaultOptions()
	opts.MaxStepSize = 30 * track.Millimeter
	opts.MaxPathLength = 1 * track.Meter

	target := surface.NewPlane(track.Vector3{X: 100}, track.Vector3{X: 1})

	res, err := prop.PropagateTo(forwardX(1*track.GeV), target, opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}

	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Status)
	}
	if math.Abs(res.EndParameters.Position.X-100) > opts.TargetTolerance {
		t.Errorf("expected to stop on the target within tolerance, got x=%f", res.EndParameters.Position.X)
	}
	if math.Abs(res.PathLength-100) > opts.TargetTolerance {
		t.Errorf("expected path length 100, got %f", res.PathLength)
	}
}

func TestTargetCylinderFromAxis(t *testing.T) {
	prop := propagator.New(stepper.NewLine())

	opts := propagator.DefaultOptions()
	opts.MaxStepSize = 30 * track.Millimeter
	opts.MaxPathLength = 1 * track.Meter

	// from the axis, the cylinder is crossed at the same distance both
	// ways; the crossing along the propagation direction must be taken
	target := surface.NewCylinder(100)

	res, err := prop.PropagateTo(forwardX(1*track.GeV), target, opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Status)
	}
	if math.Abs(res.EndParameters.Position.Perp()-100) > opts.TargetTolerance {
		t.Errorf("expected to stop on the cylinder, got r=%f", res.EndParameters.Position.Perp())
	}
}

func TestTargetCylinderBackwardWallNearer(t *testing.T) {
	prop := propagator.New(stepper.NewLine())

	opts := propagator.DefaultOptions()
	opts.MaxStepSize = 30 * track.Millimeter
	opts.MaxPathLength = 1 * track.Meter

	start := forwardX(1 * track.GeV)
	start.Position = track.Vector3{X: -50}
	target := surface.NewCylinder(100)

	res, err := prop.PropagateTo(start, target, opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Status)
	}
	if math.Abs(res.PathLength-150) > opts.TargetTolerance {
		t.Errorf("expected path length 150, got %f", res.PathLength)
	}
}

func TestTargetWrongDirection(t *testing.T) {
	prop := propagator.New(stepper.NewLine())
	opts := propagator.DefaultOptions()

	// plane behind the track under forward propagation
	target := surface.NewPlane(track.Vector3{X: -100}, track.Vector3{X: 1})

	res, err := prop.PropagateTo(forwardX(1*track.GeV), target, opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}
	if res.Status != propagator.StatusWrongDirection {
		t.Errorf("expected wrong_direction, got %v", res.Status)
	}
	if res.EndParameters != nil {
		t.Error("expected no end parameters")
	}
}

func TestTargetAlreadyReached(t *testing.T) {
	prop := propagator.New(stepper.NewLine())
	opts := propagator.DefaultOptions()

	// start exactly on the target surface
	target := surface.NewPlane(track.Vector3{}, track.Vector3{X: 1})

	res, err := prop.PropagateTo(forwardX(1*track.GeV), target, opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}
	if res.Status != propagator.StatusFailure {
		t.Errorf("expected failure on degenerate start, got %v", res.Status)
	}
	if res.Steps != 0 {
		t.Errorf("expected no steps, got %d", res.Steps)
	}
}

func TestDeterminism(t *testing.T) {
	bfield := field.NewConstant(track.Vector3{Z: 2 * track.Tesla})
	prop := propagator.New(stepper.NewRK4(bfield))

	opts := propagator.DefaultOptions()
	opts.MaxStepSize = 10 * track.Millimeter
	opts.MaxPathLength = 500 * track.Millimeter

	start := forwardX(1 * track.GeV)

	res1, err := prop.Propagate(start, opts)
	if err != nil {
		t.Fatalf("first propagate failed: %v", err)
	}
	res2, err := prop.Propagate(start, opts)
	if err != nil {
		t.Fatalf("second propagate failed: %v", err)
	}

	if res1.Steps != res2.Steps {
		t.Errorf("steps differ: %d vs %d", res1.Steps, res2.Steps)
	}
	if res1.PathLength != res2.PathLength {
		t.Errorf("path lengths differ: %v vs %v", res1.PathLength, res2.PathLength)
	}
	if *res1.EndParameters != *res2.EndParameters {
		t.Error("end parameters differ between identical calls")
	}
}

func TestRoundTrip(t *testing.T) {
	bfield := field.NewConstant(track.Vector3{Z: 2 * track.Tesla})
	prop := propagator.New(stepper.NewRK4(bfield))

	opts := propagator.DefaultOptions()
	opts.MaxStepSize = 5 * track.Millimeter
	opts.MaxPathLength = 300 * track.Millimeter

	start := forwardX(1 * track.GeV)

	fwd, err := prop.Propagate(start, opts)
	if err != nil {
		t.Fatalf("forward propagate failed: %v", err)
	}
	if !fwd.OK() {
		t.Fatalf("forward propagation did not succeed: %v", fwd.Status)
	}

	opts.Direction = propagator.Backward
	bwd, err := prop.Propagate(*fwd.EndParameters, opts)
	if err != nil {
		t.Fatalf("backward propagate failed: %v", err)
	}
	if !bwd.OK() {
		t.Fatalf("backward propagation did not succeed: %v", bwd.Status)
	}

	dist := bwd.EndParameters.Position.Sub(start.Position).Norm()
	if dist > 1e-2 {
		t.Errorf("round trip missed the start by %f mm", dist)
	}
	dirDiff := bwd.EndParameters.Direction.Sub(start.Direction).Norm()
	if dirDiff > 1e-4 {
		t.Errorf("round trip direction off by %f", dirDiff)
	}
}

func TestDuplicateActionSlots(t *testing.T) {
	prop := propagator.New(stepper.NewLine())
	opts := propagator.DefaultOptions()
	opts.Actions = propagator.ActionList{
		&recordAction{id: "dup"},
		&recordAction{id: "dup"},
	}

	_, err := prop.Propagate(forwardX(1*track.GeV), opts)
	if !errors.Is(err, track.ErrDuplicateAction) {
		t.Errorf("expected duplicate action error, got %v", err)
	}
}

func TestInvalidOptions(t *testing.T) {
	prop := propagator.New(stepper.NewLine())

	tests := []struct {
		name   string
		mutate func(*propagator.Options)
	}{
		{"zero step size", func(o *propagator.Options) { o.MaxStepSize = 0 }},
		{"negative step size", func(o *propagator.Options) { o.MaxStepSize = -1 }},
		{"negative path length", func(o *propagator.Options) { o.MaxPathLength = -1 }},
		{"bad direction", func(o *propagator.Options) { o.Direction = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := propagator.DefaultOptions()
			tt.mutate(&opts)
			_, err := prop.Propagate(forwardX(1*track.GeV), opts)
			if !errors.Is(err, track.ErrInvalidOptions) {
				t.Errorf("expected invalid options error, got %v", err)
			}
		})
	}
}

// failingStepper signals a numerical failure on its second step.
type failingStepper struct {
	line  *stepper.Line
	steps int
}

func (f *failingStepper) MakeCache(start track.Parameters, stepSize float64) *propagator.Cache {
	return f.line.MakeCache(start, stepSize)
}

func (f *failingStepper) Step(c *propagator.Cache) float64 {
	f.steps++
	if f.steps >= 2 {
		c.Err = track.ErrUnstable
	}
	return f.line.Step(c)
}

func (f *failingStepper) Convert(c *propagator.Cache) track.Parameters {
	return f.line.Convert(c)
}

func (f *failingStepper) ConvertAt(c *propagator.Cache, s surface.Surface) track.Parameters {
	return f.line.ConvertAt(c, s)
}

func TestStepperFailure(t *testing.T) {
	prop := propagator.New(&failingStepper{line: stepper.NewLine()})

	opts := propagator.DefaultOptions()
	opts.MaxStepSize = 1 * track.Millimeter

	res, err := prop.Propagate(forwardX(1*track.GeV), opts)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}
	if res.Status != propagator.StatusFailure {
		t.Errorf("expected failure, got %v", res.Status)
	}
	if res.EndParameters != nil {
		t.Error("expected no end parameters")
	}
}
