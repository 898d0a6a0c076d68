// Command dynamodb-actions-lambda serves the action processor as an AWS
// Lambda function.
package main

import (
	"log/slog"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/jacentio/dynamodb-actions/action"
	"github.com/jacentio/dynamodb-actions/lambda"
)

func main() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	h := lambda.NewHandler(action.NewProcessor(action.WithLogger(logger)), logger)
	awslambda.Start(h.Handle)
}
