package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jacentio/dynamodb-actions/action"
	"github.com/jacentio/dynamodb-actions/output"
)

const (
	// envPrefix matches the variables GitHub Actions sets for action inputs.
	envPrefix = "input"

	flagLogLevel = "log-level"
)

// app holds the state shared by all commands of one process run.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer

	// newClient and sink are replaced in tests.
	newClient action.ClientFactory
	sink      output.Sink

	logger *slog.Logger
	flush  func()
}

func newApp(stdout, stderr io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", ""))
	v.AutomaticEnv()

	return &app{
		v:         v,
		stdout:    stdout,
		stderr:    stderr,
		newClient: action.DefaultClientFactory,
		flush:     func() {},
	}
}

func (a *app) close() {
	a.flush()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "dynamodb-actions",
		Short: "Run a DynamoDB operation",
		Long: fmt.Sprintf(`dynamodb-actions (%s)

Runs one DynamoDB item operation (get, put, batch-put, delete, update)
configured by flags or INPUT_* environment variables, and reports outputs
to the GitHub Actions runner.`, version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			logger, flush, err := newLogger(a.stderr, a.v.GetString(flagLogLevel))
			if err != nil {
				return err
			}
			a.logger, a.flush = logger, flush
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, "")
		},
	}

	setupInputFlags(root, true)
	root.PersistentFlags().String(flagLogLevel, "warn", "Log level (debug, info, warn, error)")

	for _, op := range action.Operations {
		root.AddCommand(newOperationCmd(a, op))
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of dynamodb-actions",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "dynamodb-actions %s\n", version)
		},
	})
	return root
}

func newOperationCmd(a *app, op action.OperationName) *cobra.Command {
	cmd := &cobra.Command{
		Use:   op.String(),
		Short: fmt.Sprintf("Run the %s operation", op),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, op)
		},
	}
	setupInputFlags(cmd, false)
	return cmd
}

// setupInputFlags adds one flag per input field, named in kebab-case.
func setupInputFlags(cmd *cobra.Command, withOperation bool) {
	for _, field := range action.Fields {
		if field == action.FieldOperation && !withOperation {
			continue
		}
		cmd.Flags().String(flagName(field), "", fmt.Sprintf("Input %q", field))
	}
}

// run executes one operation. op presets the operation for verb subcommands.
func (a *app) run(cmd *cobra.Command, op action.OperationName) error {
	fields := make(map[string]string)
	for _, field := range action.Fields {
		if s := a.v.GetString(flagName(field)); s != "" {
			fields[field] = s
		}
	}
	if op != "" {
		fields[action.FieldOperation] = op.String()
	}

	p := action.NewProcessor(
		action.WithLogger(a.logger),
		action.WithClientFactory(a.newClient),
	)
	out, err := p.Process(cmd.Context(), action.NewRawInput(fields))
	if err != nil {
		a.logger.Error("operation failed", "error", err)
		return err
	}

	sink := a.sink
	if sink == nil {
		sink = output.FromEnv()
	}
	return output.WriteAll(sink, out)
}

// flagName converts an input field name to its flag name, e.g.
// "updateExpression" to "update-expression".
func flagName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
