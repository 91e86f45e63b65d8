package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/kofuk/go-queryalternatives"
	"github.com/kofuk/mclaunch/internal/system"
)

func javaBinary() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}

// BuildArgv returns the command line for running jarPath. An empty javaHome means the
// java found on PATH.
func BuildArgv(javaHome string, javaArgs []string, jarPath string, jarArgs []string) []string {
	java := javaBinary()
	if javaHome != "" {
		java = filepath.Join(javaHome, "bin", java)
	}

	argv := make([]string, 0, len(javaArgs)+len(jarArgs)+3)
	argv = append(argv, java)
	argv = append(argv, javaArgs...)
	argv = append(argv, "-jar", jarPath)
	argv = append(argv, jarArgs...)
	return argv
}

func findNewestJavaCommand(ctx context.Context, executor system.CommandExecutor) (string, error) {
	output, err := system.RunWithOutput(ctx, executor, "update-alternatives", []string{"--query", "java"})
	if err != nil {
		return "", err
	}

	alternatives, err := queryalternatives.ParseString(output)
	if err != nil {
		return "", err
	} else if alternatives.Best == "" {
		return "", errors.New("no alternatives found")
	}

	return alternatives.Best, nil
}

// FindJavaHome returns the installation directory of the preferred java alternative,
// or an empty string when there is none.
func FindJavaHome(ctx context.Context, executor system.CommandExecutor) string {
	path, err := findNewestJavaCommand(ctx, executor)
	if err != nil {
		slog.Warn("Error finding java installation. Using the system default", slog.Any("error", err))
		return ""
	}

	return filepath.Dir(filepath.Dir(path))
}
