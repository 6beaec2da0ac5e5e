// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dispatch routes front-end intents to the task backend and shapes
// every outcome into a fixed response contract. Intent names are normalized
// and translated mechanically into backend operation names; there is no
// allow-list here, so capability discovery stays in the backend and this
// layer never needs updating when the backend grows new operations.
//
// All backend access goes through a single exclusively-held handle: the
// backend is one stateful session, and a storage mode switch may tear down
// and recreate its process, so concurrent in-flight calls are never allowed.
package dispatch

import (
	"context"
	"strings"

	"github.com/AmirTlinov/apply-task/internal/bridge"
	apperrors "github.com/AmirTlinov/apply-task/internal/errors"
)

// operationPrefix namespaces intents into backend tool names. The backend
// resolves these by exact-match table lookup.
const operationPrefix = "tasks_"

// Dispatcher owns the shared backend handle and serializes every call
// against it. Create one per backend session and share it process-wide.
type Dispatcher struct {
	bridge bridge.Bridge
	sem    chan struct{}
}

// New creates a dispatcher around an already-connected bridge.
func New(b bridge.Bridge) *Dispatcher {
	return &Dispatcher{bridge: b, sem: make(chan struct{}, 1)}
}

// Normalize returns the canonical form of an intent: trimmed and lower-cased.
// It is total and idempotent; any string normalizes without error.
func Normalize(intent string) string {
	return strings.ToLower(strings.TrimSpace(intent))
}

// OperationName derives the backend operation for an intent.
// One intent maps to exactly one operation name.
func OperationName(intent string) string {
	return operationPrefix + Normalize(intent)
}

// acquire takes exclusive ownership of the backend handle, suspending until
// the handle is free. A cancelled context while waiting is the only
// acquisition failure.
func (d *Dispatcher) acquire(ctx context.Context) error {
	if d == nil || d.bridge == nil {
		return apperrors.New(apperrors.BridgeUnavailable, "no backend bridge configured")
	}
	select {
	case d.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return apperrors.Wrap(apperrors.BridgeUnavailable, "acquire backend handle", ctx.Err())
	}
}

func (d *Dispatcher) release() { <-d.sem }

// Dispatch routes an intent to the backend and returns the response envelope.
//
// On success the backend's decoded result is returned verbatim. Every backend
// failure (transport, tool error, malformed payload) is converted into the
// fixed error envelope with a nil Go error; the returned error is non-nil
// only when the backend handle itself could not be acquired.
//
// A nil params map is equivalent to an empty one. No timeout is applied to
// the backend call: a hung backend holds the handle until it answers or the
// process dies.
func (d *Dispatcher) Dispatch(ctx context.Context, intent string, params map[string]any) (map[string]any, error) {
	if err := d.acquire(ctx); err != nil {
		return nil, err
	}
	defer d.release()

	normalized := Normalize(intent)
	if params == nil {
		params = map[string]any{}
	}

	result, err := d.bridge.Invoke(ctx, operationPrefix+normalized, params)
	if err != nil {
		return ErrorEnvelope(normalized, err.Error()), nil
	}
	return result, nil
}

// SetStorageMode switches the backend's persistent-storage mode and reports
// the outcome as a fixed-shape record. On success Mode carries the backend's
// canonical mode read back from the bridge, never an echo of the input; on
// failure the requested mode is echoed since the canonical mode is unknown.
// Backend-side failures never surface as a Go error, mirroring Dispatch.
func (d *Dispatcher) SetStorageMode(ctx context.Context, mode string) (StorageModeResponse, error) {
	if err := d.acquire(ctx); err != nil {
		return StorageModeResponse{}, err
	}
	defer d.release()

	restarted, err := d.bridge.SetStorageMode(ctx, mode)
	if err != nil {
		return StorageModeResponse{Success: false, Mode: mode, Restarted: false, Error: err.Error()}, nil
	}
	return StorageModeResponse{Success: true, Mode: d.bridge.StorageMode(), Restarted: restarted}, nil
}

// StorageMode reads the backend's canonical current storage mode under the
// handle lock.
func (d *Dispatcher) StorageMode(ctx context.Context) (string, error) {
	if err := d.acquire(ctx); err != nil {
		return "", err
	}
	defer d.release()
	return d.bridge.StorageMode(), nil
}
