// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dispatch

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestErrorEnvelopeShapeIsStable(t *testing.T) {
	// The same keyset regardless of cause; callers test success then read
	// error.message without cause-specific branching.
	causes := []string{
		"tool tasks_nope not found",
		"write |1: broken pipe",
		"decode tasks_list payload: invalid character 'x'",
	}

	wantKeys := []string{"success", "intent", "result", "warnings", "context", "suggestions", "meta", "error", "timestamp"}

	for _, cause := range causes {
		env := ErrorEnvelope("nope", cause)
		if len(env) != len(wantKeys) {
			t.Errorf("envelope has %d keys, want %d", len(env), len(wantKeys))
		}
		for _, key := range wantKeys {
			if _, ok := env[key]; !ok {
				t.Errorf("envelope missing key %q for cause %q", key, cause)
			}
		}
		errObj := env["error"].(map[string]any)
		if errObj["code"] != ErrorCode {
			t.Errorf("error.code = %v, want %q", errObj["code"], ErrorCode)
		}
		if errObj["message"] != cause {
			t.Errorf("error.message = %v, want %q", errObj["message"], cause)
		}
	}
}

func TestStorageModeResponseJSON(t *testing.T) {
	ok, err := json.Marshal(StorageModeResponse{Success: true, Mode: "memory", Restarted: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(ok), "\"error\"") {
		t.Errorf("success response carries error field: %s", ok)
	}

	failed, err := json.Marshal(StorageModeResponse{Success: false, Mode: "invalid", Error: "unknown storage mode"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{"\"success\":false", "\"mode\":\"invalid\"", "\"restarted\":false", "unknown storage mode"} {
		if !strings.Contains(string(failed), want) {
			t.Errorf("failure response %s missing %s", failed, want)
		}
	}
}
