// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

var ErrUnknownTask = errors.New("unknown task")

// Task is a named developer command delegated to an external tool
type Task struct {
	Name        string
	Description string
	Argv        []string
}

// Default returns the developer tasks in help order
func Default() []Task {
	return []Task{
		{
			Name:        "install",
			Description: "Download module dependencies",
			Argv:        []string{"go", "mod", "download"},
		},
		{
			Name:        "dev",
			Description: "Run the API on 0.0.0.0:8000, restarting on config edits",
			Argv:        []string{"go", "run", ".", "serve", "--host", "0.0.0.0", "--port", "8000", "--reload"},
		},
		{
			Name:        "test",
			Description: "Run the test suite verbosely",
			Argv:        []string{"go", "test", "-v", "./..."},
		},
		{
			Name:        "seed",
			Description: "Seed the database with puzzles",
			Argv:        []string{"go", "run", ".", "seed"},
		},
	}
}

// Lookup finds a default task by name
func Lookup(name string) (Task, error) {
	for _, t := range Default() {
		if t.Name == name {
			return t, nil
		}
	}
	return Task{}, fmt.Errorf("%w: %q", ErrUnknownTask, name)
}

// Help writes the usage summary: a header and one line per task
func Help(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, t := range Default() {
		fmt.Fprintf(&b, "  %-8s %s\n", t.Name, t.Description)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Runner executes an argv
type Runner interface {
	Run(ctx context.Context, argv []string) error
}

// ExecRunner runs commands as child processes attached to the given streams.
// Nil streams default to the current process's.
type ExecRunner struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if r.Stdin != nil {
		cmd.Stdin = r.Stdin
	}
	if r.Stdout != nil {
		cmd.Stdout = r.Stdout
	}
	if r.Stderr != nil {
		cmd.Stderr = r.Stderr
	}

	// Interrupt first so a dev server can shut down cleanly
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = 10 * time.Second

	return cmd.Run()
}

// Run looks up a task and hands its argv to runner unchanged
func Run(ctx context.Context, runner Runner, name string) error {
	t, err := Lookup(name)
	if err != nil {
		return err
	}

	slog.Debug("running task", "task", t.Name, "argv", strings.Join(t.Argv, " "))
	return runner.Run(ctx, t.Argv)
}

// ExitCode maps a Run error to a process exit status.
// A child's own status passes through unchanged.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		return 1
	}

	if errors.Is(err, ErrUnknownTask) {
		return 2
	}
	return 1
}
