// Package remote resolves dependencies that no local project satisfies.
// An external tool downloads them into its cache; the resolver then promotes
// every file into the global artifact store.
package remote

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Fetcher implements ports.Fetcher by invoking the resolver tool.
type Fetcher struct {
	settings domain.ResolverSettings
	logger   ports.Logger
}

var _ ports.Fetcher = (*Fetcher)(nil)

// NewFetcher creates a Fetcher.
func NewFetcher(settings domain.ResolverSettings, logger ports.Logger) *Fetcher {
	return &Fetcher{settings: settings, logger: logger}
}

// Args builds the resolver invocation for coords.
func (f *Fetcher) Args(coords, repositories []string) []string {
	args := []string{"fetch", "--classpath"}
	if f.settings.CacheDir != "" {
		args = append(args, "--cache", f.settings.CacheDir)
	}
	if f.settings.Parallelism > 0 {
		args = append(args, "--parallel", strconv.Itoa(f.settings.Parallelism))
	}
	if f.settings.TTL != "" {
		args = append(args, "--ttl", f.settings.TTL)
	}
	for _, repo := range repositories {
		args = append(args, "-r", repo)
	}
	return append(args, coords...)
}

// Fetch runs the resolver and parses the classpath it prints.
// Stdout carries the classpath, stderr carries progress which is forwarded to the logger.
func (f *Fetcher) Fetch(ctx context.Context, coords, repositories []string) ([]string, error) {
	if len(coords) == 0 {
		return nil, nil
	}

	binary, err := exec.LookPath(f.settings.Binary)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrResolverNotFound.Error()), "binary", f.settings.Binary)
	}

	var stdout, stderr bytes.Buffer
	progress := newLineForwarder(f.logger)

	cmd := exec.CommandContext(ctx, binary, f.Args(coords, repositories)...) //nolint:gosec // configured resolver
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(&stderr, progress)

	runErr := cmd.Run()
	progress.flush()

	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		cause := runErr
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			cause = errors.New(msg)
		}
		wrapped := zerr.With(zerr.Wrap(cause, domain.ErrRemoteResolutionFailed.Error()), "exit_code", exitCode)
		return nil, zerr.With(wrapped, "coordinates", strings.Join(coords, " "))
	}

	return domain.ParseClasspath(strings.TrimSpace(stdout.String())), nil
}

// lineForwarder sends complete lines to the logger.
type lineForwarder struct {
	logger ports.Logger
	buf    bytes.Buffer
}

func newLineForwarder(logger ports.Logger) *lineForwarder {
	return &lineForwarder{logger: logger}
}

func (w *lineForwarder) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		w.emit(string(w.buf.Next(i + 1)))
	}
	return len(p), nil
}

func (w *lineForwarder) flush() {
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *lineForwarder) emit(line string) {
	if w.logger == nil {
		return
	}
	if text := strings.TrimSpace(line); text != "" {
		w.logger.Info(text)
	}
}
