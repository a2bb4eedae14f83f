// ABOUTME: Tests for the ingest command's argument handling
// ABOUTME: Covers required flags and source-type validation
package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestIngestCmd_RequiresFlags(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"ingest"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error when --type and --id are missing")
	}
}

func TestIngestCmd_RejectsUnknownSourceType(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("some content"))
	cmd.SetArgs([]string{"ingest", "--type", "banana", "--id", "x"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for unknown source type")
	}
	if !strings.Contains(err.Error(), "banana") {
		t.Errorf("error should name the bad type, got %v", err)
	}
}

func TestIngestCmd_Flags(t *testing.T) {
	cmd := NewIngestCmd()
	for _, name := range []string{"type", "id", "title"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag not found", name)
		}
	}
}
