// ABOUTME: Tests for the version command
// ABOUTME: Verifies version info is set and printed
package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2026-01-01")
	defer SetVersion("dev", "none", "unknown")

	cmd := NewVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"1.2.3", "abc123", "2026-01-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
