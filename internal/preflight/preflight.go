package preflight

import (
	"context"

	"subcue/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	lock := CheckServerLock(cfg.LockPath())
	results = append(results, lock)

	// a running server owns the bind address
	if lock.Passed {
		results = append(results, CheckBind(ctx, cfg.Paths.APIBind))
	}
	return results
}
