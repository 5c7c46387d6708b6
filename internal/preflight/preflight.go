package preflight

import (
	"encodeflow/internal/config"
	"encodeflow/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Watch directory", cfg.Paths.WatchDir, AccessRead),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir, AccessWrite),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, AccessWrite),
	}
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, FromDependency(status))
	}
	return results
}

// CheckSystemDeps resolves every executable cfg requires.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}

// FromDependency converts a dependency status into a check result.
func FromDependency(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
	if status.Available {
		result.Detail = status.Path
	}
	return result
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
