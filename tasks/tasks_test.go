// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tasks

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingRunner struct {
	calls [][]string
	err   error
}

func (r *recordingRunner) Run(ctx context.Context, argv []string) error {
	r.calls = append(r.calls, argv)
	return r.err
}

func TestHelp_FiveLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Help(&buf))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Available commands:", lines[0])
	for i, name := range []string{"install", "dev", "test", "seed"} {
		assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[i+1]), name), "line %d: %q", i+1, lines[i+1])
	}
}

func TestRun_IssuesExactArgv(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"install", []string{"go", "mod", "download"}},
		{"dev", []string{"go", "run", ".", "serve", "--host", "0.0.0.0", "--port", "8000", "--reload"}},
		{"test", []string{"go", "test", "-v", "./..."}},
		{"seed", []string{"go", "run", ".", "seed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &recordingRunner{}
			require.NoError(t, Run(context.Background(), runner, tt.name))
			require.Len(t, runner.calls, 1)
			assert.Equal(t, tt.argv, runner.calls[0])
		})
	}
}

func TestDefault_Order(t *testing.T) {
	var names []string
	for _, task := range Default() {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"install", "dev", "test", "seed"}, names)
}

func TestRun_UnknownTask(t *testing.T) {
	runner := &recordingRunner{}
	err := Run(context.Background(), runner, "deploy")

	assert.ErrorIs(t, err, ErrUnknownTask)
	assert.Empty(t, runner.calls)
	assert.Equal(t, 2, ExitCode(err))
}

func TestRun_PropagatesRunnerError(t *testing.T) {
	want := errors.New("boom")
	err := Run(context.Background(), &recordingRunner{err: want}, "test")

	assert.ErrorIs(t, err, want)
	assert.Equal(t, 1, ExitCode(err))
}

func TestExecRunner_ExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var stdout bytes.Buffer
	runner := ExecRunner{Stdout: &stdout, Stderr: &stdout}

	require.NoError(t, runner.Run(context.Background(), []string{"sh", "-c", "echo hi"}))
	assert.Equal(t, "hi\n", stdout.String())

	err := runner.Run(context.Background(), []string{"sh", "-c", "exit 3"})
	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))
}

func TestExitCode_Nil(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
}
