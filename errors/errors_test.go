package errors

import (
	"fmt"
	"testing"
)

func TestSyncError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeNoRuntimeDir, "runtime dir missing")
	if err.Code != ErrCodeNoRuntimeDir {
		t.Errorf("expected code %s, got %s", ErrCodeNoRuntimeDir, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeCommandFailed, "command failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeCommandFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeNoHomeDir) {
		t.Error("Is should return false for non-matching code")
	}

	// Is sees through fmt wrapping
	outer := fmt.Errorf("pass: %w", wrapped)
	if !Is(outer, ErrCodeCommandFailed) {
		t.Error("Is should unwrap fmt errors")
	}

	// Test WithDetail
	detailed := err.WithDetail("socket", "/run/x.sock").WithDetail("pid", 42)
	if detailed.Details["socket"] != "/run/x.sock" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := NoStorefrontDir("/home/u/.var/app/com.valvesoftware.Steam/data")
	if err.Code != ErrCodeNoStorefrontDir {
		t.Errorf("expected code %s, got %s", ErrCodeNoStorefrontDir, err.Code)
	}
	if err.Details["path"] == nil {
		t.Error("NoStorefrontDir should include path detail")
	}

	err = DaemonAlreadyRunning(1234)
	if err.Details["pid"] != 1234 {
		t.Error("DaemonAlreadyRunning should include pid detail")
	}

	err = PostStepFailed("update-desktop-database", fmt.Errorf("boom"))
	if !Is(err, ErrCodePostStepFailed) {
		t.Error("PostStepFailed should carry its code")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", fmt.Errorf("x"), 1},
		{"home", NoHomeDir(fmt.Errorf("x")), 2},
		{"runtime", NoRuntimeDir(), 3},
		{"socket", SocketBindFailed("/s", fmt.Errorf("x")), 6},
		{"post step wrapped", fmt.Errorf("pass: %w", PostStepFailed("u", fmt.Errorf("x"))), 8},
		{"channel", TriggerChannelClosed(), 9},
		{"unmapped code", New(ErrCodeInternal, "x"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
