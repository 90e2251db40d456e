package cargo

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/skeleton/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const maxLineSize = 1 << 20

var _ ports.Compiler = (*Compiler)(nil)

// Compiler implements ports.Compiler by running `cargo build`.
type Compiler struct {
	logger ports.Logger
}

// NewCompiler creates a new Compiler.
func NewCompiler(logger ports.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Build runs cargo build in req.Root. Output is forwarded line by line to the
// logger (stdout as info, stderr as warnings) and to the vertex carried by ctx.
func (c *Compiler) Build(ctx context.Context, req domain.BuildRequest) error {
	bin := binary(req.Cargo)
	args := BuildArgs(req)
	c.logger.Debug("running " + bin + " " + strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, bin, args...) //nolint:gosec // cargo binary is configured by the user
	cmd.Dir = req.Root

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return zerr.Wrap(err, "failed to attach stdout")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return zerr.Wrap(err, "failed to attach stderr")
	}

	if err := cmd.Start(); err != nil {
		startErr := zerr.Wrap(domain.ErrExternalProcessFailed, err.Error())
		startErr = zerr.With(startErr, "package", req.Package.Name)
		return zerr.With(startErr, "cargo", bin)
	}

	var outSink, errSink io.Writer = io.Discard, io.Discard
	if v, ok := ports.VertexFromContext(ctx); ok {
		outSink, errSink = v.Stdout(), v.Stderr()
	}

	// Both pipes must be drained before Wait closes them.
	var g errgroup.Group
	g.Go(func() error { return forwardLines(stdout, c.logger.Info, outSink) })
	g.Go(func() error { return forwardLines(stderr, c.logger.Warn, errSink) })
	if err := g.Wait(); err != nil {
		c.logger.Warn("failed to read cargo output: " + err.Error())
	}

	if err := cmd.Wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		buildErr := zerr.Wrap(domain.ErrExternalProcessFailed, "cargo build failed")
		buildErr = zerr.With(buildErr, "package", req.Package.Name)
		return zerr.With(buildErr, "exit_code", exitCode)
	}

	return nil
}

// BuildArgs builds the cargo build argument list: one -p selector per external
// dependency, then the intensity flags, then the pass-through arguments.
func BuildArgs(req domain.BuildRequest) []string {
	args := make([]string, 0, 1+2*len(req.Selectors)+len(req.Flags)+len(req.Args))
	args = append(args, "build")
	for _, id := range req.Selectors {
		args = append(args, "-p", id.String())
	}
	args = append(args, req.Flags...)
	args = append(args, req.Args...)
	return args
}

func forwardLines(r io.Reader, log func(string), sink io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		log(line)
		_, _ = io.WriteString(sink, line+"\n")
	}
	if err := scanner.Err(); err != nil {
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(sink, r)
		return err
	}
	return nil
}
