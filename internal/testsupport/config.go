package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"encodeflow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The watch and output directories exist; the encoder is a stub that exits 0.
// Poll intervals are shortened so asynchronous tests settle quickly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WatchDir = filepath.Join(base, "incoming")
	cfgVal.Paths.OutputDir = filepath.Join(base, "encoded")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Watch.Filter = "*"
	cfgVal.Watch.ReadinessPollMS = 20
	cfgVal.Workflow.QueuePollMS = 20

	for _, dir := range []string{cfgVal.Paths.WatchDir, cfgVal.Paths.OutputDir, cfgVal.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	builder.cfg.Encoder.Binary = builder.writeScript("encoder", "exit 0\n")

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithEncoderScript replaces the stub encoder with a shell script whose body
// follows the #!/bin/sh line. The script sees the assembled arguments as $@.
func WithEncoderScript(body string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoder.Binary = b.writeScript("encoder", body)
	}
}

// WithEncoderBinary points the config at an arbitrary executable path.
func WithEncoderBinary(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoder.Binary = path
	}
}

// WithEncoderArgs sets the pre-input and post-input argument strings.
func WithEncoderArgs(pre, post string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoder.PreInputArgs = pre
		b.cfg.Encoder.PostInputArgs = post
	}
}

// WithFilter overrides the filename glob.
func WithFilter(pattern string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Watch.Filter = pattern
	}
}

// WithRetries sets the retry budget and delay.
func WithRetries(maxRetries, delaySeconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.MaxRetries = maxRetries
		b.cfg.Workflow.RetryDelaySeconds = delaySeconds
	}
}

// WithAPIBind enables the status API on addr.
func WithAPIBind(addr string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.Bind = addr
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		for _, name := range names {
			b.writeScript(name, "exit 0\n")
		}
		b.t.Setenv("PATH", b.binDir()+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WatchDir)
}

func (b *configBuilder) binDir() string {
	dir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	return dir
}

func (b *configBuilder) writeScript(name, body string) string {
	b.t.Helper()
	target := filepath.Join(b.binDir(), name)
	script := []byte("#!/bin/sh\n" + body)
	if err := os.WriteFile(target, script, 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
