// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

package mcpclient

import (
	"strings"
	"testing"
)

func TestCanonicalMode(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		expectError bool
	}{
		{name: "memory", input: "memory", want: ModeMemory},
		{name: "mem shorthand", input: "mem", want: ModeMemory},
		{name: "in-memory synonym", input: "in-memory", want: ModeMemory},
		{name: "file", input: "file", want: ModeFile},
		{name: "persistent synonym", input: "persistent", want: ModeFile},
		{name: "disk synonym", input: "disk", want: ModeFile},
		{name: "mixed case with whitespace", input: "  Memory ", want: ModeMemory},
		{name: "empty rejected", input: "", expectError: true},
		{name: "unknown rejected", input: "cloud", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalMode(tt.input)

			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanonicalMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonicalModeIdempotent(t *testing.T) {
	for _, mode := range []string{"memory", "mem", "persistent", "file", "DISK"} {
		once, err := CanonicalMode(mode)
		if err != nil {
			t.Fatalf("CanonicalMode(%q) error = %v", mode, err)
		}
		twice, err := CanonicalMode(once)
		if err != nil {
			t.Fatalf("CanonicalMode(%q) error = %v", once, err)
		}
		if once != twice {
			t.Errorf("canonicalization not idempotent: %q -> %q -> %q", mode, once, twice)
		}
	}
}

func TestInvokeWithoutSession(t *testing.T) {
	c := &Client{}
	_, err := c.Invoke(t.Context(), "tasks_list", nil)
	if err == nil {
		t.Fatal("expected error for unconnected client")
	}
	if !strings.Contains(err.Error(), "bridge_unavailable") {
		t.Errorf("error = %v, want bridge_unavailable kind", err)
	}
}

func TestStorageModeUnknownRejectedWithoutRestart(t *testing.T) {
	c := &Client{mode: ModeFile}
	restarted, err := c.SetStorageMode(t.Context(), "cloud")
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if restarted {
		t.Error("restarted = true, want false on rejection")
	}
	if c.StorageMode() != ModeFile {
		t.Errorf("StorageMode() = %q, want unchanged %q", c.StorageMode(), ModeFile)
	}
}
