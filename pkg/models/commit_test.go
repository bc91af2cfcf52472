package models

import (
	"reflect"
	"testing"
)

func TestCommit_AssociatedIssues(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"single reference", "Fix login bug #42", []string{"42"}},
		{"multiple references keep order", "Refs #7, closes #3", []string{"7", "3"}},
		{"duplicates kept", "#5 again #5", []string{"5", "5"}},
		{"multi-line message", "Title\n\nFixes #100\nSee #2", []string{"100", "2"}},
		{"no reference", "Bump version", []string{}},
		{"hash without digits", "Use # for comments", []string{}},
		{"adjacent references", "#1#2", []string{"1", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Commit{Message: tt.message}.AssociatedIssues()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AssociatedIssues() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommit_Title(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Single line", "Single line"},
		{"First\nSecond\nThird", "First"},
		{"", ""},
		{"\nbody only", ""},
	}

	for _, tt := range tests {
		if got := (Commit{Message: tt.message}).Title(); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestCommit_ShortSHA1(t *testing.T) {
	if got := (Commit{SHA1: "abc12345deadbeef"}).ShortSHA1(); got != "abc12345" {
		t.Errorf("ShortSHA1() = %q, want abc12345", got)
	}
	if got := (Commit{SHA1: "abc"}).ShortSHA1(); got != "abc" {
		t.Errorf("ShortSHA1() = %q, want abc", got)
	}
}
