package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestRepoError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *RepoError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
		{
			name:     "sync warning",
			err:      Wrap(fmt.Errorf("network down"), CategorySync, SeverityWarning, "pull failed"),
			expected: "sync (warning): pull failed: network down",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestRepoError_WithContext(t *testing.T) {
	err := SyncWarning("pull", "/tmp/git-wc-1", "git@example.com:eb.git", fmt.Errorf("timeout"))

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["operation"] != "pull" {
		t.Errorf("Context[operation] = %v, want pull", err.Context["operation"])
	}
	if err.Context["remote"] != "git@example.com:eb.git" {
		t.Errorf("Context[remote] = %v, want remote URL", err.Context["remote"])
	}
}

func TestRepoError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(cause, CategoryFileSystem, SeverityFatal, "write failed")

	if !stdErrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIsFatal(t *testing.T) {
	if IsFatal(nil) {
		t.Error("nil error must not be fatal")
	}
	if !IsFatal(stdErrors.New("plain")) {
		t.Error("plain errors default to fatal")
	}
	if IsFatal(SyncWarning("push", "/wc", "remote", fmt.Errorf("x"))) {
		t.Error("sync warnings are not fatal")
	}
	if !IsFatal(InvalidTarget("bogus://", "unsupported scheme")) {
		t.Error("configuration errors are fatal")
	}

	// Severity survives wrapping with fmt.Errorf.
	wrapped := fmt.Errorf("context: %w", SyncWarning("pull", "/wc", "remote", fmt.Errorf("x")))
	if IsFatal(wrapped) {
		t.Error("severity should be detected through wrapping")
	}
}
