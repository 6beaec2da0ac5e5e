// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dispatch

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AmirTlinov/apply-task/internal/bridge/model"
)

// fakeBridge implements bridge.Bridge for dispatcher tests. It records the
// operations and params it receives and can be primed with results, errors
// and call latency.
type fakeBridge struct {
	invokeResult map[string]any
	invokeErr    error
	modeErr      error
	restarted    bool
	mode         string

	callDelay time.Duration

	mu         sync.Mutex
	operations []string
	params     []map[string]any

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeBridge) enter() {
	n := f.inFlight.Add(1)
	for {
		max := f.maxInFlight.Load()
		if n <= max || f.maxInFlight.CompareAndSwap(max, n) {
			break
		}
	}
	if f.callDelay > 0 {
		time.Sleep(f.callDelay)
	}
}

func (f *fakeBridge) leave() { f.inFlight.Add(-1) }

func (f *fakeBridge) Connect(ctx context.Context, spec model.BackendSpec) error { return nil }
func (f *fakeBridge) Close(ctx context.Context) error                           { return nil }

func (f *fakeBridge) Invoke(ctx context.Context, operation string, params map[string]any) (map[string]any, error) {
	f.enter()
	defer f.leave()
	f.mu.Lock()
	f.operations = append(f.operations, operation)
	f.params = append(f.params, params)
	f.mu.Unlock()
	if f.invokeErr != nil {
		return nil, f.invokeErr
	}
	return f.invokeResult, nil
}

func (f *fakeBridge) SetStorageMode(ctx context.Context, mode string) (bool, error) {
	f.enter()
	defer f.leave()
	if f.modeErr != nil {
		return false, f.modeErr
	}
	return f.restarted, nil
}

func (f *fakeBridge) StorageMode() string { return f.mode }

func (f *fakeBridge) ListTools(ctx context.Context) ([]model.Tool, error) { return nil, nil }
func (f *fakeBridge) ServerInfo() model.ServerInfo                        { return model.ServerInfo{} }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		intent string
		want   string
	}{
		{name: "already canonical", intent: "create", want: "create"},
		{name: "mixed case", intent: "CrEaTe", want: "create"},
		{name: "surrounding whitespace", intent: "  done \t", want: "done"},
		{name: "empty", intent: "", want: ""},
		{name: "whitespace only", intent: "   ", want: ""},
		{name: "inner whitespace preserved", intent: " User Signal ", want: "user signal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.intent)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.intent, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestOperationName(t *testing.T) {
	if got := OperationName(" Create "); got != "tasks_create" {
		t.Errorf("OperationName() = %q, want tasks_create", got)
	}
	if got := OperationName(""); got != "tasks_" {
		t.Errorf("OperationName(empty) = %q, want tasks_", got)
	}
}

func TestDispatchRoutesNormalizedOperation(t *testing.T) {
	fake := &fakeBridge{invokeResult: map[string]any{"success": true}}
	d := New(fake)

	for _, intent := range []string{" Create ", "create", "CREATE"} {
		if _, err := d.Dispatch(t.Context(), intent, nil); err != nil {
			t.Fatalf("Dispatch(%q) error = %v", intent, err)
		}
	}

	for i, op := range fake.operations {
		if op != "tasks_create" {
			t.Errorf("operation[%d] = %q, want tasks_create", i, op)
		}
	}
}

func TestDispatchSuccessPassThrough(t *testing.T) {
	result := map[string]any{
		"success": true,
		"result":  map[string]any{"task": map[string]any{"id": "T-1", "title": "write docs"}},
		"meta":    map[string]any{"count": float64(3)},
	}
	fake := &fakeBridge{invokeResult: result}
	d := New(fake)

	got, err := d.Dispatch(t.Context(), "context", map[string]any{"task": "T-1"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !reflect.DeepEqual(got, result) {
		t.Errorf("Dispatch() = %#v, want backend result passed through unchanged", got)
	}
}

func TestDispatchFailureBuildsErrorEnvelope(t *testing.T) {
	fake := &fakeBridge{invokeErr: errors.New("tool tasks_frobnicate not found")}
	d := New(fake)

	got, err := d.Dispatch(t.Context(), " Frobnicate ", nil)
	if err != nil {
		t.Fatalf("Dispatch() hard error = %v, want envelope", err)
	}

	if success, _ := got["success"].(bool); success {
		t.Error("success = true, want false")
	}
	if intent, _ := got["intent"].(string); intent != "frobnicate" {
		t.Errorf("intent = %q, want normalized frobnicate", intent)
	}
	errObj, ok := got["error"].(map[string]any)
	if !ok {
		t.Fatalf("error field = %#v, want object", got["error"])
	}
	if code, _ := errObj["code"].(string); code != ErrorCode {
		t.Errorf("error.code = %q, want %q", code, ErrorCode)
	}
	if msg, _ := errObj["message"].(string); msg == "" {
		t.Error("error.message is empty")
	}
	for _, key := range []string{"result", "warnings", "context", "suggestions", "meta", "timestamp"} {
		if _, ok := got[key]; !ok {
			t.Errorf("envelope missing %q placeholder", key)
		}
	}
}

func TestDispatchNilParamsEqualsEmpty(t *testing.T) {
	fake := &fakeBridge{invokeResult: map[string]any{}}
	d := New(fake)

	if _, err := d.Dispatch(t.Context(), "list", nil); err != nil {
		t.Fatalf("Dispatch(nil) error = %v", err)
	}
	if _, err := d.Dispatch(t.Context(), "list", map[string]any{}); err != nil {
		t.Fatalf("Dispatch(empty) error = %v", err)
	}

	if len(fake.params) != 2 {
		t.Fatalf("backend saw %d calls, want 2", len(fake.params))
	}
	for i, p := range fake.params {
		if p == nil {
			t.Errorf("params[%d] = nil, want empty map", i)
		}
		if len(p) != 0 {
			t.Errorf("params[%d] = %v, want empty", i, p)
		}
	}
}

func TestSetStorageModeSuccessReportsCanonicalMode(t *testing.T) {
	// Bridge canonicalizes "persistent" to "file" and restarts.
	fake := &fakeBridge{mode: "file", restarted: true}
	d := New(fake)

	resp, err := d.SetStorageMode(t.Context(), "persistent")
	if err != nil {
		t.Fatalf("SetStorageMode() error = %v", err)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Mode != "file" {
		t.Errorf("Mode = %q, want canonical file", resp.Mode)
	}
	if !resp.Restarted {
		t.Error("Restarted = false, want bridge signal true")
	}
	if resp.Error != "" {
		t.Errorf("Error = %q, want empty", resp.Error)
	}
}

func TestSetStorageModeFailureEchoesRequestedMode(t *testing.T) {
	fake := &fakeBridge{mode: "file", modeErr: errors.New("unknown storage mode \"invalid\"")}
	d := New(fake)

	resp, err := d.SetStorageMode(t.Context(), "invalid")
	if err != nil {
		t.Fatalf("SetStorageMode() hard error = %v, want response", err)
	}
	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.Mode != "invalid" {
		t.Errorf("Mode = %q, want echoed invalid", resp.Mode)
	}
	if resp.Restarted {
		t.Error("Restarted = true, want false on failure")
	}
	if resp.Error == "" {
		t.Error("Error is empty, want failure message")
	}
}

func TestDispatchWithoutBridgeIsHardFailure(t *testing.T) {
	d := New(nil)
	if _, err := d.Dispatch(t.Context(), "create", nil); err == nil {
		t.Error("Dispatch() error = nil, want handle-unavailable failure")
	}
	if _, err := d.SetStorageMode(t.Context(), "memory"); err == nil {
		t.Error("SetStorageMode() error = nil, want handle-unavailable failure")
	}
}

func TestAcquireCancelledWhileHandleHeld(t *testing.T) {
	fake := &fakeBridge{invokeResult: map[string]any{}, callDelay: 100 * time.Millisecond}
	d := New(fake)

	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = d.Dispatch(context.Background(), "slow", nil)
	}()
	<-started
	time.Sleep(10 * time.Millisecond) // let the first call take the handle

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Dispatch(ctx, "fast", nil); err == nil {
		t.Error("Dispatch() with cancelled ctx = nil error, want hard failure")
	}
}

func TestBackendCallsNeverInterleave(t *testing.T) {
	fake := &fakeBridge{
		invokeResult: map[string]any{},
		mode:         "memory",
		callDelay:    5 * time.Millisecond,
	}
	d := New(fake)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = d.Dispatch(context.Background(), "list", nil)
		}()
		go func() {
			defer wg.Done()
			_, _ = d.SetStorageMode(context.Background(), "memory")
		}()
	}
	wg.Wait()

	if max := fake.maxInFlight.Load(); max > 1 {
		t.Errorf("max concurrent backend calls = %d, want 1", max)
	}
}
