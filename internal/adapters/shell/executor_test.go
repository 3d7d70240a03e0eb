package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/shell"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// recordingLogger collects logged lines.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

func (l *recordingLogger) Warn(msg string) { l.Info(msg) }

func (l *recordingLogger) Error(err error) { l.Info(err.Error()) }

func (l *recordingLogger) output() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

func TestExecutor_Execute_StreamsLines(t *testing.T) {
	log := &recordingLogger{}
	executor := shell.NewExecutor(log)

	err := executor.Execute(context.Background(), &domain.Command{
		Name: "echo",
		Args: []string{"sh", "-c", "echo line1; printf part; sleep 0.1; echo 2"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)

	out := log.output()
	assert.Contains(t, out, "line1")
	assert.Contains(t, out, "part2")
	assert.NotContains(t, out, "\r")
}

func TestExecutor_Execute_WorkingDirAndEnv(t *testing.T) {
	log := &recordingLogger{}
	dir := t.TempDir()

	err := shell.NewExecutor(log).Execute(context.Background(), &domain.Command{
		Name: "env",
		Args: []string{"sh", "-c", "pwd; echo value=$KILN_TEST_VALUE"},
		Dir:  dir,
		Env:  []string{"KILN_TEST_VALUE=42"},
	})
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	out := log.output()
	assert.True(t, strings.Contains(out, dir) || strings.Contains(out, resolved), out)
	assert.Contains(t, out, "value=42")
}

func TestExecutor_Execute_ExitCode(t *testing.T) {
	err := shell.NewExecutor(&recordingLogger{}).Execute(context.Background(), &domain.Command{
		Name: "fail",
		Args: []string{"sh", "-c", "exit 3"},
	})
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, 3, zErr.Metadata()["exit_code"])
	assert.Equal(t, "fail", zErr.Metadata()["command"])
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	err := shell.NewExecutor(&recordingLogger{}).Execute(context.Background(), &domain.Command{Name: "empty"})
	assert.ErrorContains(t, err, "empty command")
}

func TestExecutor_Execute_MissingProgram(t *testing.T) {
	err := shell.NewExecutor(&recordingLogger{}).Execute(context.Background(), &domain.Command{
		Name: "missing",
		Args: []string{"kiln-definitely-not-a-program"},
	})
	assert.ErrorContains(t, err, "failed to start command")
}

func TestExecutor_Start_Stop(t *testing.T) {
	proc, err := shell.NewExecutor(&recordingLogger{}).Start(context.Background(), &domain.Command{
		Name: "sleeper",
		Args: []string{"sleep", "30"},
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, proc.Stop())
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("process did not stop")
	}
}

func TestExecutor_Start_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	proc, err := shell.NewExecutor(&recordingLogger{}).Start(ctx, &domain.Command{
		Name: "sleeper",
		Args: []string{"sleep", "30"},
	})
	require.NoError(t, err)

	cancel()
	assert.Error(t, proc.Wait())
}

func TestResolveEnvironment(t *testing.T) {
	got := shell.ResolveEnvironment(
		[]string{"PATH=/usr/bin", "JAVA_HOME=/jdk", "broken"},
		[]string{"PORT=5173", "PATH=/opt/bin"},
	)
	assert.Equal(t, []string{"PATH=/opt/bin", "JAVA_HOME=/jdk", "PORT=5173"}, got)
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "javac")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notexec"), []byte(""), 0o600))

	got, err := shell.LookPath("javac", []string{"PATH=" + dir})
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	_, err = shell.LookPath("notexec", []string{"PATH=" + dir})
	assert.Error(t, err)

	_, err = shell.LookPath("javac", nil)
	assert.Error(t, err)
}
