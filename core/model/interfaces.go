package model

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's configuration.
	GetParams() map[string]interface{}
}

// StateReporter is implemented by components that expose their lifecycle state.
type StateReporter interface {
	State() EstimatorState
}
