package system

//go:generate go tool mockgen -destination cmd_mock.go -package system . CommandExecutor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const ScopeName = "github.com/kofuk/mclaunch/internal/system"

// CommandExecutor runs short-lived helper commands to completion.
type CommandExecutor interface {
	Run(ctx context.Context, path string, args []string, options ...CmdOption) error
}

type SimpleExecutor struct{}

var DefaultExecutor CommandExecutor = new(SimpleExecutor)

type CmdOption func(cmd *exec.Cmd)

func WithEnv(env string) CmdOption {
	return func(cmd *exec.Cmd) {
		cmd.Env = append(cmd.Env, env)
	}
}

func WithWorkingDir(dir string) CmdOption {
	return func(cmd *exec.Cmd) {
		cmd.Dir = dir
	}
}

func WithOutput(w io.Writer) CmdOption {
	return func(cmd *exec.Cmd) {
		cmd.Stdout = w
	}
}

// WithStdio connects the command to the launcher's own terminal.
func WithStdio() CmdOption {
	return func(cmd *exec.Cmd) {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
}

// Apply configures cmd the same way Run would.
func Apply(cmd *exec.Cmd, options ...CmdOption) {
	cmd.Env = cmd.Environ()
	for _, opt := range options {
		opt(cmd)
	}
}

func (e *SimpleExecutor) Run(ctx context.Context, path string, args []string, options ...CmdOption) error {
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer(ScopeName)
	ctx, span := tracer.Start(ctx, fmt.Sprintf("EXEC %s", path))
	defer span.End()

	slog.Debug("Execute system command", slog.String("command", path), slog.Any("args", args))

	stderr := new(strings.Builder)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr
	Apply(cmd, options...)

	span.SetAttributes(
		attribute.String("command.name", path),
		attribute.StringSlice("command.args", cmd.Args),
	)

	if err := cmd.Run(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.Debug("Command failed", slog.String("command", path), slog.String("stderr", stderr.String()), slog.Any("error", err))
		return err
	}
	return nil
}

func RunWithOutput(ctx context.Context, executor CommandExecutor, path string, args []string, options ...CmdOption) (string, error) {
	output := new(strings.Builder)
	err := executor.Run(ctx, path, args, append(options, WithOutput(output))...)
	return output.String(), err
}
