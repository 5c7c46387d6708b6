// Package main hosts the encodeflow CLI entrypoint and command graph.
//
// The Cobra command tree runs the pipeline in the foreground ("run"),
// scaffolds and inspects configuration, and exposes the building blocks
// (readiness probe, encoder argument assembly, preflight checks) for
// troubleshooting without starting the daemon. Configuration is resolved once
// per invocation and shared by every subcommand.
package main
