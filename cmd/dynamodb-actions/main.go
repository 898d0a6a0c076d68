// Command dynamodb-actions runs a single DynamoDB operation from GitHub
// Actions style inputs.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry"

	"github.com/jacentio/dynamodb-actions/output"
)

var version = "dev"

func main() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	a := newApp(os.Stdout, os.Stderr)
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		output.Fail(os.Stdout, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Logs go to w; when SENTRY_DSN is set
// errors are also reported to Sentry. The returned func flushes Sentry.
func newLogger(w io.Writer, levelName string) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %s", levelName)
	}

	logHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(logHandler)

	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return logger, func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:           dsn,
		Release:       version,
		EnableTracing: false,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error initiating sentry client: %w", err)
	}

	logger = slog.New(
		slogmulti.Fanout(
			logHandler,
			slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
		),
	)
	logger = logger.With("release", version)
	return logger, func() { sentry.Flush(2 * time.Second) }, nil
}
