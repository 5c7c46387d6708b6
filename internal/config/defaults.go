package config

const (
	defaultLogDir                 = "~/.local/share/encodeflow/logs"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultReadinessPollMS        = 500
	defaultQueuePollMS            = 1000
	defaultMaxRetries             = 1
	defaultRetryDelaySeconds      = 0
	envEncoderBinary              = "ENCODEFLOW_ENCODER_BINARY"
	envWatchDir                   = "ENCODEFLOW_WATCH_DIR"
	envOutputDir                  = "ENCODEFLOW_OUTPUT_DIR"
	sampleConfigDocumentationHint = "encodeflow config init"
)

// Default returns a Config populated with repository defaults. The encoder
// binary and both folders have no default and must be configured.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Watch: Watch{
			ReadinessPollMS: defaultReadinessPollMS,
		},
		Workflow: Workflow{
			QueuePollMS:       defaultQueuePollMS,
			MaxRetries:        defaultMaxRetries,
			RetryDelaySeconds: defaultRetryDelaySeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
