package domain

import (
	"context"
	"os"
)

// ExecResult 宿主文件操作的统一结果
// Errno is zero on success; Stderr carries the diagnostic text of a failed step.
type ExecResult struct {
	Errno  int    `json:"errno"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// OK reports whether the host operation succeeded.
func (r ExecResult) OK() bool {
	return r.Errno == 0
}

// HostFileService 宿主环境提供的文件/Shell协作接口
// Every call is synchronous from the caller's view. A non-nil error is returned
// together with a failed ExecResult so callers can surface the raw diagnostic.
type HostFileService interface {
	Exists(ctx context.Context, path string) (bool, error)
	ReadText(ctx context.Context, path string) (string, ExecResult, error)
	WriteText(ctx context.Context, path, text string) (ExecResult, error)
	Copy(ctx context.Context, src, dst string) (ExecResult, error)
	Remove(ctx context.Context, path string) (ExecResult, error)
	Chmod(ctx context.Context, path string, mode os.FileMode) (ExecResult, error)
	MakeDirs(ctx context.Context, path string) (ExecResult, error)
}

// SnapshotStore 扁平的字符串键/字节值存储，仅用于备份快照
// Capacity is unbounded and entries never expire. Get reports found=false for a
// missing key without an error.
type SnapshotStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Keys(ctx context.Context) ([]string, error)
}
