package host_file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
)

// ShellHost runs each operation as one shell command, the way the module's
// web UI drives a rooted device. Paths travel as positional parameters, so
// they are never re-quoted into the script.
type ShellHost struct {
	// Shell is the interpreter and its script flag, e.g. {"su", "-c"} on a
	// device without a root shell by default.
	Shell []string
}

func NewShellHost(shell ...string) *ShellHost {
	if len(shell) == 0 {
		shell = []string{"sh", "-c"}
	}
	return &ShellHost{Shell: shell}
}

func (h *ShellHost) run(ctx context.Context, stdin, script string, args ...string) (domain.ExecResult, error) {
	argv := append([]string{}, h.Shell[1:]...)
	argv = append(argv, script, "dax")
	argv = append(argv, args...)
	cmd := exec.CommandContext(ctx, h.Shell[0], argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	err := cmd.Run()
	res := domain.ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.Errno = exitErr.ExitCode()
	} else {
		res.Errno = -1
	}
	if res.Errno == 0 {
		res.Errno = -1
	}
	if strings.TrimSpace(res.Stderr) == "" {
		res.Stderr = err.Error()
	}
	return res, fmt.Errorf("%s: %w", strings.TrimSpace(res.Stderr), err)
}

func (h *ShellHost) Exists(ctx context.Context, path string) (bool, error) {
	res, err := h.run(ctx, "", `test -f "$1" && echo exists || echo not_exists`, path)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(res.Stdout) == "exists", nil
}

func (h *ShellHost) ReadText(ctx context.Context, path string) (string, domain.ExecResult, error) {
	res, err := h.run(ctx, "", `cat "$1"`, path)
	if err != nil {
		return "", res, err
	}
	return res.Stdout, res, nil
}

// WriteText streams text on stdin instead of echoing it, so quotes and
// newlines in the document need no escaping.
func (h *ShellHost) WriteText(ctx context.Context, path, text string) (domain.ExecResult, error) {
	if text == "" {
		return h.run(ctx, "", `: > "$1"`, path)
	}
	return h.run(ctx, text, `cat > "$1"`, path)
}

func (h *ShellHost) Copy(ctx context.Context, src, dst string) (domain.ExecResult, error) {
	return h.run(ctx, "", `cp "$1" "$2"`, src, dst)
}

func (h *ShellHost) Remove(ctx context.Context, path string) (domain.ExecResult, error) {
	return h.run(ctx, "", `rm "$1"`, path)
}

func (h *ShellHost) Chmod(ctx context.Context, path string, mode os.FileMode) (domain.ExecResult, error) {
	return h.run(ctx, "", `chmod "$1" "$2"`, fmt.Sprintf("%o", mode.Perm()), path)
}

func (h *ShellHost) MakeDirs(ctx context.Context, path string) (domain.ExecResult, error) {
	return h.run(ctx, "", `mkdir -p "$1"`, path)
}
