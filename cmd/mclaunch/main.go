package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kofuk/mclaunch/internal/commands/cli"
	potel "github.com/kofuk/mclaunch/internal/otel"
)

func run() int {
	ctx := context.Background()

	tp, err := potel.InitializeTracer(ctx)
	if err != nil {
		slog.Error("Failed to initialize tracer", slog.Any("error", err))
		return 1
	}
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				slog.Error("Failed to shutdown tracer", slog.Any("error", err))
			}
		}()
	}

	return cli.Run(ctx, os.Args[1:])
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Failed to load .env file", slog.Any("error", err))
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if os.Getenv("MCLAUNCH_VERBOSE") != "" {
		logLevel = slog.LevelDebug
	}
	// The server console owns stdout.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})))

	os.Exit(run())
}
