package repository_dax

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain/domain_dax"
)

const (
	initialBackupName = "Initial configuration backup"
	manualBackupName  = "Manual backup - %s"
)

type backupSnapshotRepository struct {
	store domain.SnapshotStore
	now   func() time.Time
}

// NewBackupSnapshotRepository 基于快照存储的备份仓库
// now may be nil, in which case time.Now is used.
func NewBackupSnapshotRepository(store domain.SnapshotStore, now func() time.Time) domain_dax.BackupRepository {
	if now == nil {
		now = time.Now
	}
	return &backupSnapshotRepository{store: store, now: now}
}

func (r *backupSnapshotRepository) HasInitial(ctx context.Context) (bool, error) {
	_, found, err := r.store.Get(ctx, domain_dax.InitialBackupKey)
	if err != nil {
		return false, fmt.Errorf("failed to read initial backup: %w", err)
	}
	return found, nil
}

// EnsureInitial 仅在初始备份不存在时写入
func (r *backupSnapshotRepository) EnsureInitial(ctx context.Context, content string) (bool, error) {
	exists, err := r.HasInitial(ctx)
	if err != nil || exists {
		return false, err
	}
	if err := r.put(ctx, domain_dax.InitialBackupKey, r.now(), content, domain_dax.BackupTypeInitial); err != nil {
		return false, err
	}
	return true, nil
}

// CreateManual 创建新的手动备份，键冲突时顺延一毫秒，从不覆盖
func (r *backupSnapshotRepository) CreateManual(ctx context.Context, content string) (string, error) {
	at := r.now()
	key := domain_dax.ManualBackupKey(at)
	for {
		_, found, err := r.store.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("failed to check backup key %s: %w", key, err)
		}
		if !found {
			break
		}
		at = at.Add(time.Millisecond)
		key = domain_dax.ManualBackupKey(at)
	}

	if err := r.put(ctx, key, at, content, domain_dax.BackupTypeManual); err != nil {
		return "", err
	}
	return key, nil
}

func (r *backupSnapshotRepository) put(ctx context.Context, key string, at time.Time, content string, typ domain_dax.BackupType) error {
	payload, err := json.Marshal(domain_dax.BackupEnvelope{
		Timestamp: domain_dax.FormatBackupTimestamp(at),
		Content:   content,
		Version:   domain_dax.BackupEnvelopeV1,
		Type:      typ,
	})
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := r.store.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("failed to store backup %s: %w", key, err)
	}
	return nil
}

// List 返回所有可解析的备份，最新的在前
func (r *backupSnapshotRepository) List(ctx context.Context) ([]domain_dax.BackupSnapshot, error) {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	type listed struct {
		snap domain_dax.BackupSnapshot
		at   time.Time
	}
	entries := make([]listed, 0, len(keys))
	for _, key := range keys {
		if key != domain_dax.InitialBackupKey && !domain_dax.IsManualBackupKey(key) {
			continue
		}
		env, ok := r.decode(ctx, key)
		if !ok {
			continue
		}
		at, _ := domain_dax.ParseBackupTimestamp(env.Timestamp)

		snap := domain_dax.BackupSnapshot{Key: key, Timestamp: env.Timestamp, Type: env.Type}
		if key == domain_dax.InitialBackupKey {
			snap.Name = initialBackupName
			snap.Type = domain_dax.BackupTypeInitial
		} else {
			snap.Name = fmt.Sprintf(manualBackupName, env.Timestamp)
			if snap.Type == "" {
				snap.Type = domain_dax.BackupTypeManual
			}
		}
		entries = append(entries, listed{snap: snap, at: at})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].at.After(entries[j].at)
	})
	out := make([]domain_dax.BackupSnapshot, len(entries))
	for i, e := range entries {
		out[i] = e.snap
	}
	return out, nil
}

func (r *backupSnapshotRepository) decode(ctx context.Context, key string) (domain_dax.BackupEnvelope, bool) {
	var env domain_dax.BackupEnvelope
	raw, found, err := r.store.Get(ctx, key)
	if err != nil || !found {
		return env, false
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, false
	}
	return env, true
}

// Restore 返回备份内容，不做任何写入
func (r *backupSnapshotRepository) Restore(ctx context.Context, key string) (string, error) {
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read backup %s: %w", key, err)
	}
	if !found {
		return "", fmt.Errorf("backup %s: %w", key, domain_dax.ErrNotFound)
	}

	var env domain_dax.BackupEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("backup %s: %w: %v", key, domain_dax.ErrCorrupt, err)
	}
	if env.Content == "" {
		return "", fmt.Errorf("backup %s has no content: %w", key, domain_dax.ErrCorrupt)
	}
	return env.Content, nil
}
