package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/kofuk/mclaunch/internal/system"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/kofuk/mclaunch/internal/supervisor")

// Stopper is something that has to be shut down once the server is gone.
type Stopper interface {
	Stop() error
}

type Supervisor struct {
	terminator Terminator
	stopGrace  time.Duration
	cmdOptions []system.CmdOption
}

type Option func(s *Supervisor)

func WithTerminator(t Terminator) Option {
	return func(s *Supervisor) {
		s.terminator = t
	}
}

// WithStopGrace sets how long a terminated server may take before it is killed.
func WithStopGrace(d time.Duration) Option {
	return func(s *Supervisor) {
		s.stopGrace = d
	}
}

func WithCmdOptions(options ...system.CmdOption) Option {
	return func(s *Supervisor) {
		s.cmdOptions = append(s.cmdOptions, options...)
	}
}

func New(options ...Option) *Supervisor {
	s := &Supervisor{
		terminator: SignalTerminator{},
		stopGrace:  30 * time.Second,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func logExit(err error) {
	var exitErr *exec.ExitError
	if err == nil {
		slog.Info("Server exited", slog.Int("exit_code", 0))
	} else if errors.As(err, &exitErr) {
		slog.Info("Server exited", slog.Int("exit_code", exitErr.ExitCode()))
	} else {
		slog.Error("Error waiting for server", slog.Any("error", err))
	}
}

// Run starts argv and waits for it to exit. When ctx is canceled first, the server is
// asked to terminate and killed if it outlives the stop grace. Every cleanup target is
// stopped after the server has exited, whichever way Run returns.
func (s *Supervisor) Run(ctx context.Context, argv []string, cleanup ...Stopper) error {
	defer func() {
		for _, c := range cleanup {
			if err := c.Stop(); err != nil {
				slog.Error("Error during cleanup", slog.Any("error", err))
			}
		}
	}()

	if len(argv) == 0 {
		return errors.New("empty command line")
	}

	_, span := tracer.Start(ctx, "Run server")
	defer span.End()
	span.SetAttributes(attribute.String("command.name", argv[0]), attribute.StringSlice("command.args", argv))

	cmd := exec.Command(argv[0], argv[1:]...)
	system.Apply(cmd, s.cmdOptions...)

	slog.Info("Starting server", slog.String("command_line", strings.Join(argv, " ")))
	if err := cmd.Start(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	select {
	case err := <-exited:
		logExit(err)
		return nil
	case <-ctx.Done():
	}

	slog.Info("Interrupted. Stopping server...")
	span.AddEvent("interrupted")
	if err := s.terminator.Terminate(cmd.Process); err != nil {
		slog.Error("Failed to request server stop", slog.Any("error", err))
	}

	timer := time.NewTimer(s.stopGrace)
	defer timer.Stop()

	select {
	case err := <-exited:
		logExit(err)
	case <-timer.C:
		slog.Warn("Server did not stop in time. Killing...", slog.Duration("grace", s.stopGrace))
		if err := cmd.Process.Kill(); err != nil {
			slog.Error("Failed to kill server", slog.Any("error", err))
		}
		logExit(<-exited)
	}

	return nil
}
