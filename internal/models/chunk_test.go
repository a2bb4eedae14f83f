// ABOUTME: Tests for Chunk model and SourceType validation
// ABOUTME: Verifies enum validity and filter zero-value semantics
package models

import "testing"

func TestSourceType_IsValid(t *testing.T) {
	tests := []struct {
		name string
		st   SourceType
		want bool
	}{
		{name: "profile is valid", st: SourceProfile, want: true},
		{name: "project is valid", st: SourceProject, want: true},
		{name: "experience is valid", st: SourceExperience, want: true},
		{name: "skills is valid", st: SourceSkills, want: true},
		{name: "education is valid", st: SourceEducation, want: true},
		{name: "resume is valid", st: SourceResume, want: true},
		{name: "blog is valid", st: SourceBlog, want: true},
		{name: "code is valid", st: SourceCode, want: true},
		{name: "empty string is invalid", st: SourceType(""), want: false},
		{name: "uppercase is invalid", st: SourceType("Profile"), want: false},
		{name: "arbitrary string is invalid", st: SourceType("website"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChunkFilter_ZeroValueMeansUnconstrained(t *testing.T) {
	var f ChunkFilter
	if f.SourceType != "" || f.SourceID != "" {
		t.Error("zero-value filter should carry no constraints")
	}
}
