package domain_dax

import "context"

// BackupRepository keeps named snapshots of the raw document text.
type BackupRepository interface {
	HasInitial(ctx context.Context) (bool, error)
	EnsureInitial(ctx context.Context, content string) (created bool, err error)
	CreateManual(ctx context.Context, content string) (key string, err error)
	List(ctx context.Context) ([]BackupSnapshot, error)
	Restore(ctx context.Context, key string) (content string, err error)
}

// DocumentRepository owns the live DAX document path and its write sequences.
type DocumentRepository interface {
	Path() string
	Exists(ctx context.Context) (bool, error)
	Read(ctx context.Context) (string, error)
	// WriteThrough writes content to a temp file, copies it over the live
	// path, removes the temp file and sets mode 644. It stops at the first
	// failing step and never rolls back.
	WriteThrough(ctx context.Context, content, tempName string) ([]StepResult, error)
	// Bootstrap creates the live document's directory, then writes content
	// through the same temp/copy/chmod/cleanup steps.
	Bootstrap(ctx context.Context, content string) ([]StepResult, error)
	// Mirror copies the live document to dst.
	Mirror(ctx context.Context, dst string) error
}

// DaxEqualizerUsecase is the orchestration surface used by the UI layer.
type DaxEqualizerUsecase interface {
	Initialize(ctx context.Context) (EditState, error)
	Load(ctx context.Context) (EditState, error)
	State() EditState
	Model() *ConfigModel
	PresetOptions() []PresetOption

	SelectProfile(profileID string) (EditState, error)
	SelectPreset(presetID string) (EditState, error)
	SwitchMode(mode EditMode) (EditState, error)
	SwitchEqType(eqType EqType) (EditState, error)
	UpdateBand(index int, value float64, field EqType) (EditState, error)
	ApplyPreset(name string) (EditState, error)
	Reset() EditState

	Save(ctx context.Context) (EditState, []StepResult, error)
	Backup(ctx context.Context) (string, error)
	ListBackups(ctx context.Context) ([]BackupSnapshot, error)
	Restore(ctx context.Context, key string) (EditState, []StepResult, error)
}
