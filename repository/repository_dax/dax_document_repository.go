package repository_dax

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain/domain_dax"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/host_file"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/logging"
)

const (
	// LiveFileMode 写入后的权限: 所有者可写，所有人可读
	LiveFileMode os.FileMode = 0o644

	BootstrapTempName = "dax-default.xml"
	SaveTempName      = "dax-temp.xml"
	RestoreTempName   = "dax-restore.xml"
)

type daxDocumentRepository struct {
	host    domain.HostFileService
	path    string
	tempDir string
}

// NewDaxDocumentRepository 管理位于 path 的 DAX 配置文件
func NewDaxDocumentRepository(host domain.HostFileService, path, tempDir string) domain_dax.DocumentRepository {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &daxDocumentRepository{host: host, path: path, tempDir: tempDir}
}

func (r *daxDocumentRepository) Path() string {
	return r.path
}

func (r *daxDocumentRepository) Exists(ctx context.Context) (bool, error) {
	ok, err := r.host.Exists(ctx, r.path)
	if err != nil {
		return false, ioFailure("check", r.path, domain.ExecResult{Errno: -1, Stderr: err.Error()})
	}
	return ok, nil
}

func (r *daxDocumentRepository) Read(ctx context.Context) (string, error) {
	text, res, err := r.host.ReadText(ctx, r.path)
	if err != nil || !res.OK() {
		return "", ioFailure("read", r.path, resultOf(res, err))
	}
	return text, nil
}

type writeStep struct {
	name string
	path string
	run  func(ctx context.Context) (domain.ExecResult, error)
	// cleanup 失败只记录，不中断后续步骤
	cleanup bool
}

func (r *daxDocumentRepository) WriteThrough(ctx context.Context, content, tempName string) ([]domain_dax.StepResult, error) {
	temp := filepath.Join(r.tempDir, tempName)
	return r.runSteps(ctx, []writeStep{
		r.writeTemp(temp, content),
		r.copyOver(temp),
		r.removeTemp(temp),
		r.chmodLive(),
	})
}

func (r *daxDocumentRepository) Bootstrap(ctx context.Context, content string) ([]domain_dax.StepResult, error) {
	temp := filepath.Join(r.tempDir, BootstrapTempName)
	dir := filepath.Dir(r.path)
	return r.runSteps(ctx, []writeStep{
		{name: domain_dax.StepMakeDirs, path: dir, run: func(ctx context.Context) (domain.ExecResult, error) {
			return r.host.MakeDirs(ctx, dir)
		}},
		r.writeTemp(temp, content),
		r.copyOver(temp),
		r.chmodLive(),
		r.removeTemp(temp),
	})
}

func (r *daxDocumentRepository) Mirror(ctx context.Context, dst string) error {
	res, err := r.host.Copy(ctx, r.path, dst)
	if err != nil || !res.OK() {
		return ioFailure("mirror", dst, resultOf(res, err))
	}
	return nil
}

func (r *daxDocumentRepository) writeTemp(temp, content string) writeStep {
	return writeStep{name: domain_dax.StepWriteTemp, path: temp, run: func(ctx context.Context) (domain.ExecResult, error) {
		return r.host.WriteText(ctx, temp, content)
	}}
}

func (r *daxDocumentRepository) copyOver(temp string) writeStep {
	return writeStep{name: domain_dax.StepCopy, path: r.path, run: func(ctx context.Context) (domain.ExecResult, error) {
		return r.host.Copy(ctx, temp, r.path)
	}}
}

func (r *daxDocumentRepository) removeTemp(temp string) writeStep {
	return writeStep{name: domain_dax.StepRemove, path: temp, cleanup: true, run: func(ctx context.Context) (domain.ExecResult, error) {
		return r.host.Remove(ctx, temp)
	}}
}

func (r *daxDocumentRepository) chmodLive() writeStep {
	return writeStep{name: domain_dax.StepChmod, path: r.path, run: func(ctx context.Context) (domain.ExecResult, error) {
		return r.host.Chmod(ctx, r.path, LiveFileMode)
	}}
}

// runSteps executes steps in order and stops at the first failure. Steps
// that already ran are not undone. A failed cleanup step is recorded in
// its StepResult and the sequence goes on.
func (r *daxDocumentRepository) runSteps(ctx context.Context, steps []writeStep) ([]domain_dax.StepResult, error) {
	logger := logging.GetSubsystemLogger("dax_document")
	results := make([]domain_dax.StepResult, 0, len(steps))

	for _, s := range steps {
		res, err := s.run(ctx)
		step := domain_dax.StepResult{Name: s.name, Path: s.path, Result: resultOf(res, err), Err: err}
		results = append(results, step)

		if !step.OK() && s.cleanup {
			logger.Warn().
				Str("step", s.name).
				Str("path", s.path).
				Int("errno", step.Result.Errno).
				Str("stderr", step.Result.Stderr).
				Msg("cleanup step failed")
			continue
		}
		if !step.OK() {
			logger.Warn().
				Str("step", s.name).
				Str("path", s.path).
				Int("errno", step.Result.Errno).
				Str("stderr", step.Result.Stderr).
				Int("completed", len(results)-1).
				Msg("write sequence stopped")
			return results, ioFailure(s.name, s.path, step.Result)
		}
		logger.Debug().Str("step", s.name).Str("path", s.path).Msg("write step done")
	}
	return results, nil
}

// resultOf folds a Go error into the ExecResult so the diagnostic survives
// even when the host returned a zero result.
func resultOf(res domain.ExecResult, err error) domain.ExecResult {
	if err == nil {
		return res
	}
	if res.OK() {
		res.Errno = -1
	}
	if strings.TrimSpace(res.Stderr) == "" {
		res.Stderr = err.Error()
	}
	return res
}

func ioFailure(op, path string, res domain.ExecResult) error {
	return fmt.Errorf("%w: %w", domain_dax.ErrIoFailure, host_file.Failure(op, path, res))
}
