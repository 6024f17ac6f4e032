package states

import (
	"fmt"
	"sync"

	"github.com/MKhiriev/go-time-sync/models"
)

// Report collects the per-type failures of one run. It travels through the
// machine as the payload of every transition.
type Report struct {
	mu           sync.Mutex
	pushFailures map[models.EntityType]error
	pullFailures map[models.EntityType]error
}

func NewReport() *Report {
	return &Report{
		pushFailures: make(map[models.EntityType]error),
		pullFailures: make(map[models.EntityType]error),
	}
}

func reportFrom(input any) (*Report, error) {
	r, ok := input.(*Report)
	if !ok || r == nil {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedInput, input)
	}
	return r, nil
}

// FailPush records that the local side of pushing t broke down, so some of
// its entities may not have been attempted. The first error wins.
func (r *Report) FailPush(t models.EntityType, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pushFailures[t]; !ok {
		r.pushFailures[t] = fmt.Errorf("push: %w", err)
	}
}

// FailPull records that t could not be pulled. The first error wins.
func (r *Report) FailPull(t models.EntityType, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pullFailures[t]; !ok {
		r.pullFailures[t] = err
	}
}

// PullFailed reports whether t failed to pull in this run.
func (r *Report) PullFailed(t models.EntityType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pullFailures[t]
	return ok
}

// TypeFailures returns the recorded failures in canonical type order, a push
// failure ahead of a pull failure of the same type.
func (r *Report) TypeFailures() []models.TypeFailure {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.TypeFailure
	for _, t := range models.AllEntityTypes() {
		if err, ok := r.pushFailures[t]; ok {
			out = append(out, models.TypeFailure{Type: t, Err: err})
		}
		if err, ok := r.pullFailures[t]; ok {
			out = append(out, models.TypeFailure{Type: t, Err: err})
		}
	}
	return out
}
