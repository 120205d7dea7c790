package main

import (
	"strings"
	"testing"
)

func TestResolveBranch(t *testing.T) {
	t.Parallel()

	branches := []string{"feature/login", "feature/logout", "hotfix/payment", "main"}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{"exact match", "main", "main", ""},
		{"exact match wins over fuzzy", "feature/login", "feature/login", ""},
		{"single fuzzy match", "paymnt", "hotfix/payment", ""},
		{"no match", "release", "", `no branch matches "release"`},
		{"ambiguous", "feature/log", "", "is ambiguous: feature/log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveBranch(tt.input, branches, false)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("resolveBranch(%q) error = %v, want it to contain %q", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveBranch(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("resolveBranch(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
