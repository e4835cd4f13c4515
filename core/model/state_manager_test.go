package model

import (
	"testing"

	"github.com/ivande/combiner/pkg/errors"
)

func TestStateManagerLifecycle(t *testing.T) {
	tests := []struct {
		name      string
		learned   int
		wantState EstimatorState
	}{
		{name: "learned columns", learned: 3, wantState: Fitted},
		{name: "nothing learned", learned: 0, wantState: FittedEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewStateManager()
			if sm.IsFitted() {
				t.Fatal("new state manager should not be fitted")
			}
			if err := sm.RequireFitted("ScalerPicker", "Transform"); err == nil {
				t.Fatal("expected NotFittedError before fit")
			} else {
				var nf *errors.NotFittedError
				if !errors.As(err, &nf) || nf.ModelName != "ScalerPicker" {
					t.Errorf("unexpected error %v", err)
				}
			}

			sm.SetFitted(tt.learned)
			if sm.State() != tt.wantState {
				t.Errorf("State() = %v, want %v", sm.State(), tt.wantState)
			}
			if err := sm.RequireFitted("ScalerPicker", "Transform"); err != nil {
				t.Errorf("RequireFitted after fit: %v", err)
			}
			if sm.IsEmpty() != (tt.wantState == FittedEmpty) {
				t.Errorf("IsEmpty() = %v", sm.IsEmpty())
			}

			sm.Reset()
			if sm.State() != NotFitted {
				t.Errorf("State() after Reset = %v", sm.State())
			}
		})
	}
}

func TestStateManagerDimensions(t *testing.T) {
	sm := NewStateManager()
	sm.SetDimensions(4, 10)
	f, n := sm.GetDimensions()
	if f != 4 || n != 10 {
		t.Errorf("GetDimensions() = (%d, %d), want (4, 10)", f, n)
	}
	sm.SetFitted(4)
	if got := sm.GetState(); got.State != "fitted" || got.NFeatures != 4 {
		t.Errorf("GetState() = %+v", got)
	}
}
