package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeEncoder()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWatch()
	c.normalizeWorkflow()
	c.normalizeLogging()
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	return nil
}

// normalizeEncoder leaves the argument strings untouched: they are split on
// single spaces verbatim when the command line is assembled.
func (c *Config) normalizeEncoder() {
	c.Encoder.Binary = strings.TrimSpace(c.Encoder.Binary)
	if c.Encoder.Binary == "" {
		if value, ok := os.LookupEnv(envEncoderBinary); ok {
			c.Encoder.Binary = strings.TrimSpace(value)
		}
	}
	if strings.HasPrefix(c.Encoder.Binary, "~") {
		if expanded, err := expandPath(c.Encoder.Binary); err == nil {
			c.Encoder.Binary = expanded
		}
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WatchDir) == "" {
		if value, ok := os.LookupEnv(envWatchDir); ok {
			c.Paths.WatchDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.WatchDir, err = expandPath(strings.TrimSpace(c.Paths.WatchDir)); err != nil {
		return fmt.Errorf("paths.watch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		if value, ok := os.LookupEnv(envOutputDir); ok {
			c.Paths.OutputDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWatch() {
	c.Watch.Filter = strings.TrimSpace(c.Watch.Filter)
	if c.Watch.ReadinessPollMS == 0 {
		c.Watch.ReadinessPollMS = defaultReadinessPollMS
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.QueuePollMS == 0 {
		c.Workflow.QueuePollMS = defaultQueuePollMS
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
