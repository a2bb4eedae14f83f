// ABOUTME: Tests for ProcessingJob status lifecycle
// ABOUTME: Verifies valid states and terminal-state detection
package models

import "testing"

func TestJobStatus_IsValid(t *testing.T) {
	for _, s := range []JobStatus{JobPending, JobProcessing, JobCompleted, JobFailed} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if JobStatus("cancelled").IsValid() {
		t.Error("unknown status should be invalid")
	}
}

func TestJobStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobPending, false},
		{JobProcessing, false},
		{JobCompleted, true},
		{JobFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
