// Package host_file provides the file operations the DAX service runs on
// the device: a local implementation over afero and a shell implementation
// that mirrors what a root shell bridge would run.
package host_file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/spf13/afero"
)

// AferoHost implements domain.HostFileService on an afero filesystem.
type AferoHost struct {
	fs afero.Fs
}

func NewAferoHost(fs afero.Fs) *AferoHost {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &AferoHost{fs: fs}
}

// Fs exposes the underlying filesystem, mostly for tests.
func (h *AferoHost) Fs() afero.Fs {
	return h.fs
}

func (h *AferoHost) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := h.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (h *AferoHost) ReadText(ctx context.Context, path string) (string, domain.ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return "", failed(err), err
	}
	data, err := afero.ReadFile(h.fs, path)
	if err != nil {
		return "", failed(err), err
	}
	return string(data), domain.ExecResult{Stdout: string(data)}, nil
}

func (h *AferoHost) WriteText(ctx context.Context, path, text string) (domain.ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return failed(err), err
	}
	if err := afero.WriteFile(h.fs, path, []byte(text), 0o644); err != nil {
		return failed(err), err
	}
	return domain.ExecResult{}, nil
}

func (h *AferoHost) Copy(ctx context.Context, src, dst string) (domain.ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return failed(err), err
	}
	data, err := afero.ReadFile(h.fs, src)
	if err != nil {
		return failed(err), err
	}
	mode := os.FileMode(0o644)
	if info, err := h.fs.Stat(dst); err == nil {
		mode = info.Mode().Perm()
	}
	if err := afero.WriteFile(h.fs, dst, data, mode); err != nil {
		return failed(err), err
	}
	return domain.ExecResult{}, nil
}

func (h *AferoHost) Remove(ctx context.Context, path string) (domain.ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return failed(err), err
	}
	if err := h.fs.Remove(path); err != nil {
		return failed(err), err
	}
	return domain.ExecResult{}, nil
}

func (h *AferoHost) Chmod(ctx context.Context, path string, mode os.FileMode) (domain.ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return failed(err), err
	}
	if err := h.fs.Chmod(path, mode); err != nil {
		return failed(err), err
	}
	return domain.ExecResult{}, nil
}

func (h *AferoHost) MakeDirs(ctx context.Context, path string) (domain.ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return failed(err), err
	}
	if err := h.fs.MkdirAll(filepath.Clean(path), 0o755); err != nil {
		return failed(err), err
	}
	return domain.ExecResult{}, nil
}

func failed(err error) domain.ExecResult {
	return domain.ExecResult{Errno: 1, Stderr: err.Error()}
}

// Failure wraps a non-zero ExecResult as an error when the implementation
// reported none.
func Failure(op, path string, res domain.ExecResult) error {
	if res.OK() {
		return nil
	}
	return fmt.Errorf("%s %s: errno %d: %s", op, path, res.Errno, res.Stderr)
}
