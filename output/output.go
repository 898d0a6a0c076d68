// Package output reports action outputs and failures to the GitHub Actions
// runner.
package output

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/sethvargo/go-githubactions"
)

// Sink receives named outputs.
type Sink interface {
	Set(name, value string) error
}

// Actions reports outputs to the runner: appended to the $GITHUB_OUTPUT file
// when it is set, as set-output workflow commands otherwise.
type Actions struct {
	action *githubactions.Action
}

// NewActions creates a sink on a githubactions.Action built from opts.
func NewActions(opts ...githubactions.Option) *Actions {
	return &Actions{action: githubactions.New(opts...)}
}

// Set reports one output. Failures writing the output file are returned.
func (a *Actions) Set(name, value string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("set output %s: %v", name, r)
		}
	}()
	a.action.SetOutput(name, value)
	return nil
}

// Memory collects outputs in a map.
type Memory struct {
	mu     sync.Mutex
	Values map[string]string
}

// Set records one output.
func (m *Memory) Set(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Values == nil {
		m.Values = make(map[string]string)
	}
	m.Values[name] = value
	return nil
}

// FromEnv returns a sink for the process environment and stdout.
func FromEnv() Sink {
	return NewActions()
}

// WriteAll sets every output in name order.
func WriteAll(sink Sink, outputs map[string]string) error {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := sink.Set(name, outputs[name]); err != nil {
			return err
		}
	}
	return nil
}

// Fail writes an "::error::" workflow command for err to w.
func Fail(w io.Writer, err error) {
	githubactions.New(githubactions.WithWriter(w)).Errorf("%s", err.Error())
}
