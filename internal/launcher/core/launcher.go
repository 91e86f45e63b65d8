package core

import (
	"errors"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	potel "github.com/kofuk/mclaunch/internal/otel"
	"github.com/kofuk/mclaunch/internal/supervisor"
	"github.com/kofuk/mclaunch/internal/system"
)

var ErrNothingToLaunch = errors.New("no server jar selected")

func (l *LauncherCore) newSupervisor(c LauncherContext) *supervisor.Supervisor {
	if l.Supervisor != nil {
		return l.Supervisor
	}

	options := []supervisor.Option{
		supervisor.WithStopGrace(c.Settings().StopGrace),
		supervisor.WithCmdOptions(system.WithStdio(), system.WithWorkingDir(c.Env().GetDataPath())),
	}
	if traceparent := potel.TraceContextFromContext(c.Context()); traceparent != "" {
		options = append(options, supervisor.WithCmdOptions(system.WithEnv("TRACEPARENT="+traceparent)))
	}

	if c.Settings().RconStop && c.Plan().Properties != nil {
		if t := supervisor.RconTerminatorFor(c.Plan().Properties); t != nil {
			options = append(options, supervisor.WithTerminator(t))
		}
	}

	return supervisor.New(options...)
}

// jarArgument expresses jarPath for a child running in dir. Paths inside dir become
// relative to it; anything else becomes absolute.
func jarArgument(dir, jarPath string) string {
	if rel, err := filepath.Rel(dir, jarPath); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return rel
	}
	if abs, err := filepath.Abs(jarPath); err == nil {
		return abs
	}
	return jarPath
}

func (l *LauncherCore) startMinecraft(c LauncherContext) error {
	plan := c.Plan()

	stoppers := make([]supervisor.Stopper, 0, len(plan.Ancillary))
	for _, s := range plan.Ancillary {
		stoppers = append(stoppers, s)
	}

	if plan.Map == nil || plan.Runtime == nil || plan.JarPath == "" {
		for _, s := range stoppers {
			s.Stop()
		}
		return ErrNothingToLaunch
	}

	javaHome := plan.JavaHome
	javaArgs := []string(nil)
	if plan.SubRuntime != nil {
		javaArgs = plan.SubRuntime.SubRuntime.Args
	}
	if javaHome == "" {
		javaHome = supervisor.FindJavaHome(c.Context(), l.CommandExecutor)
	}

	jar := jarArgument(c.Env().GetDataPath(), plan.JarPath)
	argv := supervisor.BuildArgv(javaHome, javaArgs, jar, plan.Runtime.Runtime.Args)

	// Interrupts only mean "stop the server" while it is running.
	ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Launching server", slog.String("map", plan.Map.Name), slog.String("jar", plan.JarPath))
	return l.newSupervisor(c).Run(ctx, argv, stoppers...)
}
