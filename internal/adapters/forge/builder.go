package forge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"github.com/tungnguyen/tokendeploy/internal/domain/config"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// Builder compiles the Foundry project with forge
type Builder struct {
	log         *slog.Logger
	projectRoot string
	debug       bool
	binary      string
	stream      io.Writer
}

// NewBuilder creates a new forge builder
func NewBuilder(cfg *config.RuntimeConfig, log *slog.Logger) *Builder {
	return &Builder{
		log:         log.With("component", "ForgeBuilder"),
		projectRoot: cfg.ProjectRoot,
		debug:       cfg.Debug,
		binary:      "forge",
		stream:      os.Stderr,
	}
}

// Build runs forge build in the project root
func (b *Builder) Build(ctx context.Context) error {
	start := time.Now()
	b.log.Debug("running forge build", "dir", b.projectRoot)

	cmd := exec.CommandContext(ctx, b.binary, "build")
	cmd.Dir = b.projectRoot

	if b.debug {
		return b.buildStreaming(cmd, start)
	}

	output, err := cmd.CombinedOutput()
	duration := time.Since(start)
	if err != nil {
		b.log.Error("forge build failed", "error", err, "output", string(output), "duration", duration)
		return fmt.Errorf("forge build failed: %w\nOutput: %s", err, string(output))
	}

	b.log.Debug("forge build completed successfully", "duration", duration)
	return nil
}

// buildStreaming copies forge output through a pty so compiler colors survive
func (b *Builder) buildStreaming(cmd *exec.Cmd, start time.Time) error {
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	// reading a pty returns EIO once the child exits
	_, _ = io.Copy(b.stream, ptyFile)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("forge build failed: %w", err)
	}

	b.log.Debug("forge build completed successfully", "duration", time.Since(start))
	return nil
}

// Ensure the adapter implements the interface
var _ usecase.ContractCompiler = (*Builder)(nil)
