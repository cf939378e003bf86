package document

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner runs an external converter and returns what it wrote.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// maxStderr caps the converter diagnostics kept in logs and errors.
const maxStderr = 4 << 10

type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	log := r.logger.With("converter", name, "elapsed_ms", time.Since(start).Milliseconds())
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%s cancelled: %w", name, ctx.Err())
		}
		log.Error("document.convert.failed", "args", strings.Join(args, " "), "error", err,
			"stderr", truncate(errb.String(), maxStderr))
		return out.Bytes(), []byte(truncate(errb.String(), maxStderr)), err
	}
	log.Debug("document.convert.ok", "stdout_bytes", out.Len(), "stderr_bytes", errb.Len())
	return out.Bytes(), errb.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
