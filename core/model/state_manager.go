// Package model provides the fit/transform contract shared by every
// transformer and the bookkeeping of its fitted state.
package model

import (
	"sync"

	"github.com/ivande/combiner/pkg/errors"
)

// StateManager tracks the lifecycle of one transformer instance.
// Components hold it by composition instead of embedding a base struct.
type StateManager struct {
	mu    sync.RWMutex
	state EstimatorState

	// Optional metadata recorded at fit time.
	NFeatures int
	NSamples  int
}

// NewStateManager creates a new StateManager in the NotFitted state.
func NewStateManager() *StateManager {
	return &StateManager{state: NotFitted}
}

// State returns the current lifecycle state.
func (s *StateManager) State() EstimatorState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsFitted returns whether Fit has completed.
func (s *StateManager) IsFitted() bool {
	return s.State().IsFitted()
}

// IsEmpty reports whether the last Fit matched no columns.
func (s *StateManager) IsEmpty() bool {
	return s.State() == FittedEmpty
}

// SetFitted marks the model as fitted. learned is the number of columns
// (or parameter groups) the fit produced; zero yields FittedEmpty.
func (s *StateManager) SetFitted(learned int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if learned == 0 {
		s.state = FittedEmpty
		return
	}
	s.state = Fitted
}

// Reset resets the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NotFitted
	s.NFeatures = 0
	s.NSamples = 0
}

// SetDimensions sets the number of features and samples seen during fitting.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// GetDimensions returns the number of features and samples seen during fitting.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NFeatures, s.NSamples
}

// RequireFitted returns a NotFittedError naming modelName if Fit has not completed.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// ModelState represents the complete state of a model for debugging output.
type ModelState struct {
	State     string                 `json:"state"`
	NFeatures int                    `json:"n_features,omitempty"`
	NSamples  int                    `json:"n_samples,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
}

// GetState returns the current state as a ModelState struct.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ModelState{
		State:     s.state.String(),
		NFeatures: s.NFeatures,
		NSamples:  s.NSamples,
	}
}
