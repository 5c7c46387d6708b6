// Package services defines shared utilities consumed by the pipeline
// components.
//
// Key responsibilities:
//   - Context helpers that stamp job paths, attempts, queue lanes, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that let the result
//     handler decide whether a failure is worth retrying.
//
// Use these helpers when wiring new pipeline logic so retry decisions and log
// fields stay uniform.
package services
