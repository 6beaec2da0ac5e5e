// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package mcpclient provides an MCP-backed implementation of the Bridge interface.
// It launches the task backend as a subprocess and speaks the Model Context
// Protocol over stdio, invoking backend operations as MCP tool calls and
// decoding their JSON payloads into structured values.
//
// The package manages the backend process lifecycle, including the relaunch
// required when the persistent-storage mode changes.
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	apperrors "github.com/AmirTlinov/apply-task/internal/errors"

	"github.com/AmirTlinov/apply-task/internal/bridge/model"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Canonical storage modes understood by the backend.
const (
	ModeMemory = "memory"
	ModeFile   = "file"
)

// StorageEnvVar carries the selected storage mode into the backend process.
const StorageEnvVar = "APPLY_TASK_STORAGE"

const (
	clientName    = "taskbridge"
	clientVersion = "1.0.0"
)

// Client implements bridge.Bridge over an MCP stdio session to a backend
// subprocess. The dispatch layer serializes all calls, so no internal
// locking is needed here.
type Client struct {
	spec    model.BackendSpec
	session *mcp.ClientSession
	mode    string
	info    model.ServerInfo
}

// CanonicalMode normalizes a caller-supplied storage mode string to its
// canonical backend form. Unknown or empty modes are rejected.
func CanonicalMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeFile, "persistent", "disk":
		return ModeFile, nil
	case ModeMemory, "mem", "in-memory":
		return ModeMemory, nil
	}
	return "", fmt.Errorf("unknown storage mode %q (expected memory or file)", mode)
}

// Connect launches the backend process described by spec and performs the MCP
// handshake. The storage mode from the spec selects the initial task store;
// empty defaults to the persistent file store.
func (c *Client) Connect(ctx context.Context, spec model.BackendSpec) error {
	mode := ModeFile
	if strings.TrimSpace(spec.StorageMode) != "" {
		canon, err := CanonicalMode(spec.StorageMode)
		if err != nil {
			return apperrors.Wrap(apperrors.BackendStartFailed, "invalid launch storage mode", err)
		}
		mode = canon
	}
	c.spec = spec
	return c.launch(ctx, mode)
}

// launch spawns the backend subprocess with the given storage mode and opens
// an MCP session over its stdio.
func (c *Client) launch(ctx context.Context, mode string) error {
	if c.spec.Command == "" {
		return apperrors.New(apperrors.BackendStartFailed, "backend command is not configured")
	}

	cmd := exec.Command(c.spec.Command, c.spec.Args...)
	cmd.Dir = c.spec.Dir
	cmd.Env = append(os.Environ(), c.spec.Env...)
	cmd.Env = append(cmd.Env, StorageEnvVar+"="+mode)
	cmd.Stderr = os.Stderr

	transport := &mcp.CommandTransport{Command: cmd}
	client := mcp.NewClient(&mcp.Implementation{Name: clientName, Version: clientVersion}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.HandshakeFailed, "connect to task backend", err)
	}

	c.session = session
	c.mode = mode
	c.info = model.ServerInfo{}
	if init := session.InitializeResult(); init != nil && init.ServerInfo != nil {
		c.info = model.ServerInfo{Name: init.ServerInfo.Name, Version: init.ServerInfo.Version}
	}
	return nil
}

// Close shuts down the MCP session and with it the backend subprocess.
func (c *Client) Close(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

// Invoke calls a named backend operation and decodes its JSON payload.
// Tool-level errors and malformed payloads surface as typed errors.
func (c *Client) Invoke(ctx context.Context, operation string, params map[string]any) (map[string]any, error) {
	if c.session == nil {
		return nil, apperrors.New(apperrors.BridgeUnavailable, "backend session not established")
	}
	if params == nil {
		params = map[string]any{}
	}

	res, err := c.session.CallTool(ctx, &mcp.CallToolParams{Name: operation, Arguments: params})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvokeFailed, "call "+operation, err)
	}

	payload := firstText(res)
	if res.IsError {
		msg := strings.TrimSpace(payload)
		if msg == "" {
			msg = operation + " failed"
		}
		return nil, apperrors.New(apperrors.InvokeFailed, msg)
	}
	if strings.TrimSpace(payload) == "" {
		return nil, apperrors.New(apperrors.DecodeFailed, operation+" returned no content")
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, apperrors.Wrap(apperrors.DecodeFailed, "decode "+operation+" payload", err)
	}
	return result, nil
}

// SetStorageMode switches the backend task store. A change to a different
// canonical mode relaunches the backend process; requesting the current mode
// is a no-op.
func (c *Client) SetStorageMode(ctx context.Context, mode string) (bool, error) {
	canon, err := CanonicalMode(mode)
	if err != nil {
		return false, apperrors.Wrap(apperrors.StorageSwitchFailed, "reject storage mode", err)
	}
	if canon == c.mode && c.session != nil {
		return false, nil
	}

	if c.session != nil {
		if err := c.session.Close(); err != nil {
			c.session = nil
			return false, apperrors.Wrap(apperrors.StorageSwitchFailed, "stop backend for mode change", err)
		}
		c.session = nil
	}
	if err := c.launch(ctx, canon); err != nil {
		return false, apperrors.Wrap(apperrors.StorageSwitchFailed, "relaunch backend in "+canon+" mode", err)
	}
	return true, nil
}

// StorageMode returns the canonical storage mode of the running backend.
func (c *Client) StorageMode() string { return c.mode }

// ListTools returns the backend's operation catalog.
func (c *Client) ListTools(ctx context.Context) ([]model.Tool, error) {
	if c.session == nil {
		return nil, apperrors.New(apperrors.BridgeUnavailable, "backend session not established")
	}
	res, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvokeFailed, "list backend tools", err)
	}
	tools := make([]model.Tool, 0, len(res.Tools))
	for _, t := range res.Tools {
		tools = append(tools, model.Tool{Name: t.Name, Description: t.Description})
	}
	return tools, nil
}

// ServerInfo identifies the connected backend implementation.
func (c *Client) ServerInfo() model.ServerInfo { return c.info }

// firstText extracts the first text content block from a tool result.
func firstText(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	for _, content := range res.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
