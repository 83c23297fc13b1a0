// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs poppler's pdftotext from a docker or podman image
// so the pdftotext extraction backend works without poppler on the host.
// The PDF is streamed to the container on stdin and the text is read back
// from stdout. Nothing is mounted and the container gets no network.
package container

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// checkTimeout bounds the daemon and image checks made before extraction.
const checkTimeout = 10 * time.Second

// Runtime is a container CLI that can run a one-shot pdftotext image.
type Runtime interface {
	// Name returns the runtime binary ("docker" or "podman").
	Name() string

	// Available reports whether the binary is on PATH and its daemon
	// answers within checkTimeout.
	Available() bool

	// HasImage returns nil when image is present locally. Images are never
	// pulled; a missing pdftotext image is reported to the user instead.
	HasImage(image string) error

	// Exec runs image with args in a throwaway container, streaming stdin
	// in and stdout out. If ctx ends first the CLI process is killed and
	// the returned error wraps ctx.Err(). Otherwise a failure carries the
	// tail of the tool's stderr, where pdftotext prints its syntax errors.
	Exec(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts process execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Quiet(ctx context.Context, name string, args ...string) error
	Piped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Quiet(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (osExecutor) Piped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// cliRuntime drives one container CLI. Docker and podman take the same run
// flags; only the image presence check differs.
type cliRuntime struct {
	bin     string
	inspect []string // subcommand that fails when an image is absent
	exec    executor
}

func (c *cliRuntime) Name() string { return c.bin }

func (c *cliRuntime) Available() bool {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	return c.exec.Quiet(ctx, c.bin, "info") == nil
}

func (c *cliRuntime) HasImage(image string) error {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	args := append(append([]string(nil), c.inspect...), image)
	if err := c.exec.Quiet(ctx, c.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, c.bin, err)
	}
	return nil
}

// runArgs builds "run --rm -i --network none <image> <args...>". -i keeps
// stdin open for the streamed PDF.
func runArgs(image string, args []string) []string {
	full := make([]string, 0, len(args)+6)
	full = append(full, "run", "--rm", "-i", "--network", "none", image)
	return append(full, args...)
}

func (c *cliRuntime) Exec(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr tailBuffer
	err := c.exec.Piped(ctx, c.bin, runArgs(image, args), stdin, stdout, &stderr)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("running %s in %s: %w", image, c.bin, ctx.Err())
	}
	if msg := stderr.String(); msg != "" {
		return fmt.Errorf("running %s in %s: %w: %s", image, c.bin, err, msg)
	}
	return fmt.Errorf("running %s in %s: %w", image, c.bin, err)
}

// tailBuffer keeps the last tailLimit bytes written to it. pdftotext can
// print one warning per broken object, so only the end is worth reporting.
type tailBuffer struct {
	buf []byte
}

const tailLimit = 512

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > tailLimit {
		t.buf = t.buf[len(t.buf)-tailLimit:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string { return strings.TrimSpace(string(t.buf)) }

func newDocker(exec executor) *cliRuntime {
	return &cliRuntime{bin: binDocker, inspect: []string{"image", "inspect"}, exec: exec}
}

func newPodman(exec executor) *cliRuntime {
	return &cliRuntime{bin: binPodman, inspect: []string{"image", "exists"}, exec: exec}
}

// Detect returns docker when it is usable, otherwise podman.
func Detect() (Runtime, error) {
	return detect(osExecutor{})
}

func detect(exec executor) (Runtime, error) {
	for _, rt := range []*cliRuntime{newDocker(exec), newPodman(exec)} {
		if rt.Available() {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("no container runtime for pdftotext: neither %s nor %s found or operational",
		binDocker, binPodman)
}
