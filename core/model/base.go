package model

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はFitが一度も呼ばれていない状態
	NotFitted EstimatorState = iota
	// FittedEmpty はFit済みだが対象列が一つも無かった状態
	FittedEmpty
	// Fitted はFit済みで学習パラメータを保持している状態
	Fitted
)

func (s EstimatorState) String() string {
	switch s {
	case NotFitted:
		return "not_fitted"
	case FittedEmpty:
		return "fitted_empty"
	case Fitted:
		return "fitted"
	default:
		return "unknown"
	}
}

// IsFitted reports whether Fit has completed, whether or not it learned anything.
func (s EstimatorState) IsFitted() bool {
	return s == FittedEmpty || s == Fitted
}
