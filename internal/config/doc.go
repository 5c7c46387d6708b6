// Package config loads, normalizes, and validates encodeflow configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ENCODEFLOW_WATCH_DIR. The Config type centralizes every knob the daemon and
// CLI need: the encoder binary and its argument strings, the watched and
// output folders, the filename filter, and the polling/retry cadence.
//
// A Config is loaded once at startup and handed by pointer to every
// component constructor; nothing mutates it afterwards.
package config
