package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "Pipeline.Fit")
		panic("step exploded")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Operation != "Pipeline.Fit" {
		t.Errorf("Expected operation 'Pipeline.Fit', got '%s'", panicErr.Operation)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}
	if panicErr.Error() != "panic in Pipeline.Fit: step exploded" {
		t.Errorf("unexpected message %q", panicErr.Error())
	}
}

func TestRecover_WithExistingError(t *testing.T) {
	originalErr := fmt.Errorf("original error")

	testFunc := func() (err error) {
		defer Recover(&err, "Pipeline.Transform")
		err = originalErr
		panic("panic after error")
	}

	err := testFunc()
	if !strings.Contains(err.Error(), "panic in Pipeline.Transform") {
		t.Errorf("Error message should contain panic info: %s", err.Error())
	}
	if !errors.Is(err, originalErr) {
		t.Error("original error should stay in the chain")
	}
}

func TestSafeExecute(t *testing.T) {
	tests := []struct {
		name    string
		fn      func() error
		wantErr string
	}{
		{name: "no panic", fn: func() error { return nil }},
		{name: "returned error", fn: func() error { return New("boom") }, wantErr: "boom"},
		{name: "string panic", fn: func() error { panic("nil table") }, wantErr: "panic in step: nil table"},
		{name: "int panic", fn: func() error { panic(42) }, wantErr: "panic in step: 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SafeExecute("step", tt.fn)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("SafeExecute() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
