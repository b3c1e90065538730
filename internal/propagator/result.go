package propagator

import (
	"fmt"

	"github.com/dlai211/acts/internal/track"
)

// Result aggregates the outcome of one propagation call. It is owned by
// the caller once returned.
type Result struct {
	// EndParameters is set if and only if Status is StatusSuccess.
	EndParameters *track.Parameters

	// Status of the call.
	Status Status

	// Steps is the number of steps carried out, including the one that
	// triggered a stop condition.
	Steps uint

	// PathLength is the signed distance over which the parameters were
	// propagated.
	PathLength float64

	// extensions holds one payload slot per attached action, keyed by
	// the action ID.
	extensions map[string]any
}

// newResult registers one slot per action and rejects duplicate IDs. The
// slot set is fixed here, before the first step runs.
func newResult(status Status, actions ActionList) (*Result, error) {
	r := &Result{
		Status:     status,
		extensions: make(map[string]any, len(actions)),
	}
	for _, a := range actions {
		if _, dup := r.extensions[a.ID()]; dup {
			return nil, fmt.Errorf("%w: %q", track.ErrDuplicateAction, a.ID())
		}
		r.extensions[a.ID()] = nil
	}
	return r, nil
}

// Get returns the payload an action stored under id. The second return is
// false when no action with that ID was attached.
func (r *Result) Get(id string) (any, bool) {
	v, ok := r.extensions[id]
	return v, ok
}

// Set stores a payload under the slot id. Called by actions during the
// loop; slots of attached actions always exist.
func (r *Result) Set(id string, v any) {
	r.extensions[id] = v
}

// OK reports whether the propagation completed with valid end parameters.
func (r *Result) OK() bool {
	return r.EndParameters != nil && r.Status == StatusSuccess
}
