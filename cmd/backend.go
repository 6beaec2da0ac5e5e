// Copyright (c) 2025 Apply Task
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/AmirTlinov/apply-task/internal/bridge"
	"github.com/AmirTlinov/apply-task/internal/bridge/model"
	"github.com/AmirTlinov/apply-task/internal/config"
	"github.com/AmirTlinov/apply-task/internal/dispatch"
	"github.com/AmirTlinov/apply-task/internal/keychain"
)

// openBackend loads the CLI configuration, launches the task backend process,
// and returns a connected bridge together with a dispatcher that serializes
// calls to it. The returned cleanup function shuts the backend down; callers
// must defer it on success.
func openBackend(ctx context.Context) (bridge.Bridge, *dispatch.Dispatcher, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	spec := backendSpec(cfg)

	br := bridge.New()
	if err := br.Connect(ctx, spec); err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		// Use a fresh context so shutdown still runs after cancellation.
		_ = br.Close(context.Background())
	}

	return br, dispatch.New(br), cleanup, nil
}

// backendSpec translates the stored configuration into a launch spec,
// forwarding the cleanup TTL and the keychain token to the backend
// environment.
func backendSpec(cfg config.Config) model.BackendSpec {
	env := append([]string{}, cfg.Backend.Env...)

	if cfg.Cleanup.DoneTasksTTLSeconds > 0 {
		env = append(env, fmt.Sprintf("APPLY_TASK_DONE_TASKS_TTL=%d", cfg.Cleanup.DoneTasksTTLSeconds))
	}
	if cfg.Lang != "" {
		env = append(env, "APPLY_TASK_LANG="+cfg.Lang)
	}

	// The backend token never lives in the config file; pick it up from
	// the OS keychain when present.
	if km, err := keychain.GetManager(); err == nil {
		if token, err := km.LoadUserToken(); err == nil && strings.TrimSpace(token) != "" {
			env = append(env, "APPLY_TASK_TOKEN="+token)
		}
	}

	return model.BackendSpec{
		Command:     cfg.Backend.Command,
		Args:        cfg.Backend.Args,
		Dir:         cfg.Backend.Dir,
		Env:         env,
		StorageMode: cfg.Backend.StorageMode,
	}
}
