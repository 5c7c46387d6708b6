package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEncoder() error {
	if strings.TrimSpace(c.Encoder.Binary) == "" {
		return missingSetting("encoder.binary", envEncoderBinary)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WatchDir) == "" {
		return missingSetting("paths.watch_dir", envWatchDir)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return missingSetting("paths.output_dir", envOutputDir)
	}
	if filepath.Clean(c.Paths.WatchDir) == filepath.Clean(c.Paths.OutputDir) {
		return errors.New("paths.output_dir must differ from paths.watch_dir")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.Filter == "" {
		return errors.New("watch.filter must be set (use \"*\" to accept every file)")
	}
	if _, err := filepath.Match(c.Watch.Filter, ""); err != nil {
		return fmt.Errorf("watch.filter %q is not a valid glob: %w", c.Watch.Filter, err)
	}
	if c.Watch.ReadinessPollMS <= 0 {
		return errors.New("watch.readiness_poll_ms must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.QueuePollMS <= 0 {
		return errors.New("workflow.queue_poll_ms must be positive")
	}
	if c.Workflow.MaxRetries < 0 {
		return errors.New("workflow.max_retries must not be negative")
	}
	if c.Workflow.RetryDelaySeconds < 0 {
		return errors.New("workflow.retry_delay_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func missingSetting(key, env string) error {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/encodeflow/config.toml"
	}
	return fmt.Errorf("%s is required. Set %s env var or edit %s (create with '%s')", key, env, defaultPath, sampleConfigDocumentationHint)
}
