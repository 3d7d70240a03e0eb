// Package shell runs external tools (compiler, archiver, launcher, dev servers)
// in a pseudo-terminal and streams their output to the logger.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// stopGrace is how long a stopped process gets to exit after an interrupt.
const stopGrace = 5 * time.Second

// Executor implements ports.Executor using os/exec and pty.
type Executor struct {
	logger ports.Logger
}

var _ ports.Executor = (*Executor)(nil)

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute runs cmd and waits for it.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command) error {
	proc, err := e.Start(ctx, cmd)
	if err != nil {
		return err
	}
	return proc.Wait()
}

// Start launches cmd in a PTY, falling back to pipes where PTYs are unsupported.
func (e *Executor) Start(ctx context.Context, cmd *domain.Command) (ports.Process, error) {
	if len(cmd.Args) == 0 {
		return nil, zerr.With(zerr.New("empty command"), "command", cmd.Name)
	}

	ctx, cancel := context.WithCancel(ctx)
	c := buildCmd(ctx, cmd)
	out := &logWriter{logger: e.logger}

	ioDone := make(chan struct{})
	ptmx, err := pty.Start(c)
	switch {
	case err == nil:
		go func() {
			defer close(ioDone)
			defer func() { _ = ptmx.Close() }()
			defer func() { _ = out.Close() }()
			_, _ = io.Copy(out, ptmx)
		}()
	case errors.Is(err, pty.ErrUnsupported):
		c = buildCmd(ctx, cmd)
		c.Stdout = out
		c.Stderr = out
		if err := c.Start(); err != nil {
			cancel()
			return nil, startError(err, cmd)
		}
		close(ioDone)
	default:
		cancel()
		return nil, startError(err, cmd)
	}

	return &process{cmd: c, name: cmd.Name, cancel: cancel, ioDone: ioDone, out: out}, nil
}

func buildCmd(ctx context.Context, cmd *domain.Command) *exec.Cmd {
	env := resolveEnvironment(os.Environ(), cmd.Env)

	name := cmd.Args[0]
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // commands come from the project manifest
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = env
	c.Cancel = func() error { return c.Process.Signal(os.Interrupt) }
	c.WaitDelay = stopGrace
	return c
}

func startError(err error, cmd *domain.Command) error {
	wrapped := zerr.With(zerr.Wrap(err, "failed to start command"), "command", cmd.Name)
	return zerr.With(wrapped, "program", cmd.Args[0])
}

type process struct {
	cmd    *exec.Cmd
	name   string
	cancel context.CancelFunc
	ioDone <-chan struct{}
	out    *logWriter

	once    sync.Once
	waitErr error
}

// Wait blocks until the process exits. A non-zero exit carries exit_code metadata.
func (p *process) Wait() error {
	p.once.Do(func() {
		err := p.cmd.Wait()
		<-p.ioDone
		_ = p.out.Close()
		p.cancel()
		if err != nil {
			exitCode := -1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			}
			p.waitErr = zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode), "command", p.name)
		}
	})
	return p.waitErr
}

// Stop interrupts the process, escalating to a kill after a grace period.
// The exit status of a stopped process is not an error.
func (p *process) Stop() error {
	p.cancel()
	_ = p.Wait()
	return nil
}

// logWriter forwards complete lines to the logger.
type logWriter struct {
	logger ports.Logger
	mu     sync.Mutex
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *logWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs terminate lines with \r\n.
	w.logger.Info(strings.TrimSuffix(string(line), "\r"))
}

// resolveEnvironment overlays extra "KEY=VALUE" pairs on the inherited environment.
// JVM tools read JAVA_HOME, locale and proxy settings, so nothing is filtered.
func resolveEnvironment(sysEnv, extra []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(extra))
	order := make([]string, 0, len(sysEnv)+len(extra))
	set := func(entry string) {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			return
		}
		if _, exists := envMap[k]; !exists {
			order = append(order, k)
		}
		envMap[k] = v
	}
	for _, e := range sysEnv {
		set(e)
	}
	for _, e := range extra {
		set(e)
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches the PATH of env rather than the current process.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
