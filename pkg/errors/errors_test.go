package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "ScalerPicker.Fit",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "combiner: ScalerPicker.Fit: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "ScalerPicker.Transform",
			kind:    "not fitted",
			wantMsg: "combiner: ScalerPicker.Transform: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("NoInfoFeatureRemover", "Transform")

	want := "combiner: NoInfoFeatureRemover transformer was not fitted. Call Fit() before using Transform()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("X", "X is not a Table", nil)

	want := "combiner: validation failed for parameter 'X': X is not a Table (got: <nil>)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Fatal("Error should be castable to *ValidationError")
	}
	if valErr.ParamName != "X" {
		t.Errorf("ParamName = %q, want X", valErr.ParamName)
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("OutlierRemover.Fit", "unknown method wrong_method for outlier remover")

	want := "combiner: OutlierRemover.Fit: unknown method wrong_method for outlier remover"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestNewColumnNotFoundError(t *testing.T) {
	err := NewColumnNotFoundError("FeaturesOrder.Transform", "col_9")

	want := `combiner: FeaturesOrder.Transform: column "col_9" not found`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var colErr *ColumnNotFoundError
	if !As(err, &colErr) || colErr.Column != "col_9" {
		t.Error("Error should be castable to *ColumnNotFoundError")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("RobustScaler.Transform", 3, 2, 1)

	want := "combiner: RobustScaler.Transform: dimension mismatch on axis 1 (columns). Expected 3, got 2"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("YeoJohnson", 500, "lambda search did not converge")

	want := "YeoJohnson failed to converge after 500 iterations: lambda search did not converge"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}
}

func TestWarnUsesConfiguredHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewConvergenceWarning("YeoJohnson", 1, ""))

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrAllMissing, "in %s: column %s", "SimpleImputerPicker.Fit", "col_1")

	if !Is(wrapped, ErrAllMissing) {
		t.Error("Expected Is(wrapped, ErrAllMissing) to be true")
	}

	expectedMsg := "in SimpleImputerPicker.Fit: column col_1"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("lambda", []float64{0.5, 1}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckNumericalStability("lambda", []float64{math.NaN()}); err == nil {
		t.Error("expected instability error for NaN")
	}
}

func TestClipValue(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{-51, 1, 99, 1},
		{151, 1, 99, 99},
		{50, 1, 99, 50},
	}
	for _, tt := range tests {
		if got := ClipValue(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("ClipValue(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
