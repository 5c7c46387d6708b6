package encoding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"encodeflow/internal/config"
	"encodeflow/internal/services"
)

// Result captures one finished encoder run.
type Result struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Start    time.Time
	End      time.Time
}

// Elapsed returns the wall-clock duration of the run.
func (r Result) Elapsed() time.Duration {
	return r.End.Sub(r.Start)
}

// Succeeded reports whether the encoder exited zero.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Err classifies an unsuccessful run. It is nil for exit 0, marks a run
// killed by a signal (exit -1) as transient, and any other exit code as an
// encoder failure.
func (r Result) Err() error {
	switch {
	case r.Succeeded():
		return nil
	case r.ExitCode < 0:
		return services.Wrap(services.ErrTransient, "encoding", "run encoder", "terminated by signal", nil)
	default:
		return services.Wrap(services.ErrExternalTool, "encoding", "run encoder", fmt.Sprintf("exit code %d", r.ExitCode), nil)
	}
}

// Runner runs the encoder for a single input file.
type Runner interface {
	Invoke(ctx context.Context, inputPath string) (Result, error)
}

// Invoker runs the configured encoder binary.
type Invoker struct {
	binary    string
	preArgs   string
	postArgs  string
	outputDir string
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithBinary overrides the configured binary.
func WithBinary(binary string) Option {
	return func(i *Invoker) {
		if binary != "" {
			i.binary = binary
		}
	}
}

// NewInvoker builds an Invoker from configuration.
func NewInvoker(cfg *config.Config, opts ...Option) *Invoker {
	inv := &Invoker{
		binary:    cfg.Encoder.Binary,
		preArgs:   cfg.Encoder.PreInputArgs,
		postArgs:  cfg.Encoder.PostInputArgs,
		outputDir: cfg.Paths.OutputDir,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Binary returns the executable the Invoker launches.
func (i *Invoker) Binary() string {
	return i.binary
}

// Args returns the argument vector Invoke would use for inputPath.
func (i *Invoker) Args(inputPath string) []string {
	return BuildArgs(i.preArgs, i.postArgs, inputPath, i.outputDir)
}

// Invoke runs the encoder on inputPath and waits for it to exit. Cancelling
// ctx does not kill a running encoder; the encode always runs to completion.
// An input removed after it was queued is reported as services.ErrNotFound
// without launching anything.
func (i *Invoker) Invoke(ctx context.Context, inputPath string) (Result, error) {
	if _, err := os.Stat(inputPath); errors.Is(err, fs.ErrNotExist) {
		return Result{}, services.Wrap(services.ErrNotFound, "encoding", "open input", "input file no longer exists", err)
	}

	args := i.Args(inputPath)
	cmd := exec.CommandContext(context.WithoutCancel(ctx), i.binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	end := time.Now()

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, services.Wrap(
				services.ErrConfiguration,
				"encoding",
				"launch encoder",
				"unable to start "+i.binary,
				err,
			)
		}
	}

	return Result{
		Args:     args,
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Start:    start,
		End:      end,
	}, nil
}
