package usecase_dax

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain/domain_dax"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/repository/repository_dax"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/dax_xml"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/logging"
	"github.com/rs/zerolog"
)

// 操作失败时返回给调用方的标签
const (
	LabelLoad    = "Failed to load configuration"
	LabelSave    = "Failed to save configuration"
	LabelBackup  = "Failed to create backup"
	LabelRestore = "Failed to restore backup"
	LabelEdit    = "Invalid edit"
)

const defaultsNotice = "Configuration could not be parsed, showing defaults"

type daxEqualizerUsecase struct {
	mu        sync.Mutex
	documents domain_dax.DocumentRepository
	backups   domain_dax.BackupRepository
	timeout   time.Duration
	mirrorDir string
	logger    *zerolog.Logger

	model *domain_dax.ConfigModel
	state domain_dax.EditState
}

// NewDaxEqualizerUsecase 创建均衡器编辑服务
// mirrorDir 为空时手动备份不再复制到设备存储
func NewDaxEqualizerUsecase(
	documents domain_dax.DocumentRepository,
	backups domain_dax.BackupRepository,
	timeout time.Duration,
	mirrorDir string,
) domain_dax.DaxEqualizerUsecase {
	return &daxEqualizerUsecase{
		documents: documents,
		backups:   backups,
		timeout:   timeout,
		mirrorDir: mirrorDir,
		logger:    logging.GetSubsystemLogger("dax_equalizer"),
		state: domain_dax.EditState{
			Status:       domain_dax.StatusUnloaded,
			Mode:         domain_dax.ModeSimple,
			ActiveEqType: domain_dax.EqTypeIEQ,
			Bands:        []domain_dax.Band{},
		},
	}
}

func (uc *daxEqualizerUsecase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

// Initialize 首次打开时先保存初始备份，再加载配置
func (uc *daxEqualizerUsecase) Initialize(ctx context.Context) (domain_dax.EditState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	uc.ensureInitialBackup(ctx)
	return uc.load(ctx, "")
}

// ensureInitialBackup never fails the caller; a missing or empty live file
// simply means there is nothing to back up yet.
func (uc *daxEqualizerUsecase) ensureInitialBackup(ctx context.Context) {
	exists, err := uc.documents.Exists(ctx)
	if err != nil || !exists {
		if err != nil {
			uc.logger.Warn().Err(err).Msg("initial backup skipped")
		}
		return
	}
	content, err := uc.documents.Read(ctx)
	if err != nil || strings.TrimSpace(content) == "" {
		uc.logger.Warn().Err(err).Msg("initial backup skipped: live file unreadable or empty")
		return
	}
	created, err := uc.backups.EnsureInitial(ctx, content)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("initial backup failed")
		return
	}
	if created {
		uc.logger.Info().Int("bytes", len(content)).Msg("initial backup created")
	}
}

func (uc *daxEqualizerUsecase) Load(ctx context.Context) (domain_dax.EditState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()
	return uc.load(ctx, "")
}

// load reads the live document into the model. preferPreset is selected
// when no earlier selection survives the reload.
func (uc *daxEqualizerUsecase) load(ctx context.Context, preferPreset string) (domain_dax.EditState, error) {
	previous := uc.state.Status
	uc.state.Status = domain_dax.StatusLoading

	fail := func(err error) (domain_dax.EditState, error) {
		uc.state.Status = previous
		return uc.snapshot(), operationError(LabelLoad, err)
	}

	exists, err := uc.documents.Exists(ctx)
	if err != nil {
		return fail(err)
	}
	if !exists {
		if err := uc.bootstrapDefault(ctx); err != nil {
			return fail(err)
		}
	}

	text, err := uc.documents.Read(ctx)
	if err != nil {
		return fail(err)
	}

	model, parseErr := dax_xml.Parse(text)
	if parseErr != nil {
		uc.logger.Warn().Err(parseErr).Str("path", uc.documents.Path()).Msg("falling back to default configuration")
		model = domain_dax.DefaultModel()
	}

	uc.adoptModel(model, preferPreset)
	uc.state.IsDirty = false

	if parseErr != nil {
		uc.state.Status = domain_dax.StatusError
		uc.state.Notice = defaultsNotice
		return uc.snapshot(), operationError(LabelLoad, parseErr)
	}
	uc.state.Status = domain_dax.StatusReady
	uc.state.Notice = ""
	uc.logger.Debug().
		Int("profiles", len(model.Profiles)).
		Int("presets", len(model.Presets)).
		Msg("configuration loaded")
	return uc.snapshot(), nil
}

func (uc *daxEqualizerUsecase) bootstrapDefault(ctx context.Context) error {
	text, err := dax_xml.Serialize(dax_xml.BuildDocument(domain_dax.DefaultModel()))
	if err != nil {
		return fmt.Errorf("failed to build default document: %w", err)
	}
	uc.logger.Info().Str("path", uc.documents.Path()).Msg("live file missing, writing default configuration")
	if _, err := uc.documents.Bootstrap(context.WithoutCancel(ctx), text); err != nil {
		return err
	}
	return nil
}

// adoptModel replaces the model and rebuilds the selection against it.
func (uc *daxEqualizerUsecase) adoptModel(model *domain_dax.ConfigModel, preferPreset string) {
	prevProfile, prevPreset := "", preferPreset
	if uc.state.CurrentProfile != nil {
		prevProfile = uc.state.CurrentProfile.ID
	}
	if uc.state.CurrentPreset != nil {
		prevPreset = uc.state.CurrentPreset.ID
	}

	uc.model = model
	uc.state.CurrentProfile = nil
	uc.state.CurrentPreset = nil

	if p, ok := model.FindProfile(prevProfile); ok {
		uc.state.CurrentProfile = cloneProfile(p)
	} else if len(model.Profiles) == 1 {
		uc.state.CurrentProfile = cloneProfile(&model.Profiles[0])
	}

	if p, ok := model.FindPreset(prevPreset); ok && uc.ownedByCurrentProfile(p) {
		uc.choosePreset(p)
	} else {
		uc.autoSelectPreset()
	}

	if uc.state.CurrentPreset == nil {
		uc.state.Bands = domain_dax.ZeroBands(uc.state.Mode)
	}
}

func (uc *daxEqualizerUsecase) ownedByCurrentProfile(p *domain_dax.Preset) bool {
	return uc.state.CurrentProfile == nil || p.ProfileID == uc.state.CurrentProfile.ID
}

// autoSelectPreset picks the only preset of the selected profile.
func (uc *daxEqualizerUsecase) autoSelectPreset() {
	if uc.state.CurrentProfile == nil {
		return
	}
	presets := uc.model.PresetsForProfile(uc.state.CurrentProfile.ID)
	if len(presets) == 1 {
		uc.choosePreset(&presets[0])
	}
}

func (uc *daxEqualizerUsecase) choosePreset(p *domain_dax.Preset) {
	preset := *p
	preset.Bands = domain_dax.CloneBands(p.Bands)
	uc.state.CurrentPreset = &preset
	uc.state.Bands = domain_dax.CloneBands(p.Bands)
	if p.Type.Valid() {
		uc.state.ActiveEqType = p.Type
	}
}

func (uc *daxEqualizerUsecase) State() domain_dax.EditState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.snapshot()
}

// Model 返回当前配置模型的副本，未加载时为 nil
func (uc *daxEqualizerUsecase) Model() *domain_dax.ConfigModel {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.model.Clone()
}

// PresetOptions lists the presets of the selected profile, or every preset
// suffixed with its profile when no profile is selected.
func (uc *daxEqualizerUsecase) PresetOptions() []domain_dax.PresetOption {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	profileID := ""
	if uc.state.CurrentProfile != nil {
		profileID = uc.state.CurrentProfile.ID
	}
	presets := uc.model.PresetsForProfile(profileID)
	out := make([]domain_dax.PresetOption, 0, len(presets))
	for _, p := range presets {
		label := fmt.Sprintf("%s (%s)", p.ID, strings.ToUpper(string(p.Type)))
		if profileID == "" {
			label += " - " + p.ProfileID
		}
		out = append(out, domain_dax.PresetOption{ID: p.ID, Label: label})
	}
	return out
}

// SelectProfile 切换配置文件，清除当前预设；若该配置只有一个预设则自动选中
// An empty id clears the selection.
func (uc *daxEqualizerUsecase) SelectProfile(profileID string) (domain_dax.EditState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if profileID == "" {
		uc.state.CurrentProfile = nil
		uc.state.CurrentPreset = nil
		return uc.snapshot(), nil
	}
	p, ok := uc.model.FindProfile(profileID)
	if !ok {
		return uc.snapshot(), invalidArgument("unknown profile %q", profileID)
	}
	uc.state.CurrentProfile = cloneProfile(p)
	uc.state.CurrentPreset = nil
	uc.autoSelectPreset()
	return uc.snapshot(), nil
}

// SelectPreset copies the preset's bands into the working array and makes
// its type the active one. The dirty flag is left as it was.
func (uc *daxEqualizerUsecase) SelectPreset(presetID string) (domain_dax.EditState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if presetID == "" {
		uc.state.CurrentPreset = nil
		return uc.snapshot(), nil
	}
	p, ok := uc.model.FindPreset(presetID)
	if !ok {
		return uc.snapshot(), invalidArgument("unknown preset %q", presetID)
	}
	uc.choosePreset(p)
	return uc.snapshot(), nil
}

// SwitchMode changes the band space. The working array is kept by index.
func (uc *daxEqualizerUsecase) SwitchMode(mode domain_dax.EditMode) (domain_dax.EditState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !mode.Valid() {
		return uc.snapshot(), invalidArgument("unknown mode %q", mode)
	}
	uc.state.Mode = mode
	return uc.snapshot(), nil
}

func (uc *daxEqualizerUsecase) SwitchEqType(eqType domain_dax.EqType) (domain_dax.EditState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !eqType.Valid() {
		return uc.snapshot(), invalidArgument("unknown eq type %q", eqType)
	}
	uc.state.ActiveEqType = eqType
	return uc.snapshot(), nil
}

// UpdateBand sets one band of the working array. field GEQ edits the gain in
// dB, field IEQ the device target. Bands missing up to index are created
// with the current mode's frequencies.
func (uc *daxEqualizerUsecase) UpdateBand(index int, value float64, field domain_dax.EqType) (domain_dax.EditState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !field.Valid() {
		return uc.snapshot(), invalidArgument("unknown band field %q", field)
	}
	if _, ok := domain_dax.FrequencyAt(uc.state.Mode, index); !ok {
		return uc.snapshot(), invalidArgument("band index %d outside %s range", index, uc.state.Mode)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return uc.snapshot(), invalidArgument("band value must be finite")
	}

	for i := len(uc.state.Bands); i <= index; i++ {
		freq, _ := domain_dax.FrequencyAt(uc.state.Mode, i)
		uc.state.Bands = append(uc.state.Bands, domain_dax.Band{Frequency: freq})
	}

	band := &uc.state.Bands[index]
	switch field {
	case domain_dax.EqTypeGEQ:
		gain := domain_dax.ClampGain(value)
		band.Gain = &gain
		band.Target = nil
	case domain_dax.EqTypeIEQ:
		target := domain_dax.ClampTarget(int(math.Round(value)))
		band.Target = &target
	}
	uc.markDirty()
	return uc.snapshot(), nil
}

// ApplyPreset writes a built-in curve over the first ten bands.
func (uc *daxEqualizerUsecase) ApplyPreset(name string) (domain_dax.EditState, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	bands, ok := domain_dax.ApplyPresetFor(uc.state.Mode, name, uc.state.Bands)
	if !ok {
		return uc.snapshot(), invalidArgument("unknown built-in preset %q", name)
	}
	uc.state.Bands = bands
	uc.markDirty()
	return uc.snapshot(), nil
}

func (uc *daxEqualizerUsecase) Reset() domain_dax.EditState {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.state.Bands = domain_dax.ZeroBands(uc.state.Mode)
	uc.markDirty()
	return uc.snapshot()
}

func (uc *daxEqualizerUsecase) markDirty() {
	uc.state.IsDirty = true
	uc.state.Status = domain_dax.StatusDirty
}

// Save 将工作频段合并进实时配置文件
// Nothing is written while the state is clean.
func (uc *daxEqualizerUsecase) Save(ctx context.Context) (domain_dax.EditState, []domain_dax.StepResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if !uc.state.IsDirty {
		return uc.snapshot(), nil, nil
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	uc.state.Status = domain_dax.StatusSaving
	fail := func(steps []domain_dax.StepResult, err error) (domain_dax.EditState, []domain_dax.StepResult, error) {
		uc.state.Status = domain_dax.StatusDirty
		return uc.snapshot(), steps, operationError(LabelSave, err)
	}

	text, err := uc.documents.Read(ctx)
	if err != nil {
		return fail(nil, err)
	}

	target, kind := uc.saveTarget()
	merged, outcome, err := dax_xml.Merge(text, target, kind, uc.state.Bands)
	if err != nil {
		return fail(nil, err)
	}
	if outcome == dax_xml.MergeUnchanged {
		if target == "" {
			return fail(nil, fmt.Errorf("%w: live document has no profile to hold a custom preset", domain_dax.ErrNotFound))
		}
		return fail(nil, fmt.Errorf("%w: preset %s is not in the live document", domain_dax.ErrNotFound, target))
	}

	steps, err := uc.documents.WriteThrough(context.WithoutCancel(ctx), merged, repository_dax.SaveTempName)
	if err != nil {
		return fail(steps, err)
	}

	written, err := uc.documents.Read(ctx)
	if err != nil {
		return fail(steps, fmt.Errorf("%w: %w", domain_dax.ErrSaveAmbiguous, err))
	}
	model, err := dax_xml.Parse(written)
	if err != nil {
		return fail(steps, fmt.Errorf("%w: %w", domain_dax.ErrSaveAmbiguous, err))
	}

	prefer := ""
	if target == "" {
		prefer = domain_dax.CustomPresetID
	}
	uc.adoptModel(model, prefer)
	uc.state.IsDirty = false
	uc.state.Status = domain_dax.StatusReady
	uc.state.Notice = ""

	uc.logger.Info().
		Str("preset", target).
		Str("kind", string(kind)).
		Str("outcome", outcome.String()).
		Msg("configuration saved")
	return uc.snapshot(), steps, nil
}

// saveTarget picks the preset to update and the band element kind. Without
// a selected preset the custom preset is written, always as GEQ.
func (uc *daxEqualizerUsecase) saveTarget() (string, domain_dax.EqType) {
	if uc.state.CurrentPreset == nil {
		return "", domain_dax.EqTypeGEQ
	}
	if uc.state.Mode == domain_dax.ModeSimple || uc.state.ActiveEqType == domain_dax.EqTypeIEQ {
		return uc.state.CurrentPreset.ID, domain_dax.EqTypeIEQ
	}
	return uc.state.CurrentPreset.ID, domain_dax.EqTypeGEQ
}

// Backup 创建手动备份并尽力复制一份到设备存储
func (uc *daxEqualizerUsecase) Backup(ctx context.Context) (string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	content, err := uc.documents.Read(ctx)
	if err != nil {
		return "", operationError(LabelBackup, err)
	}
	if strings.TrimSpace(content) == "" {
		return "", domain_dax.NewOperationError(LabelBackup, domain_dax.ErrIoFailure, "configuration file is empty")
	}

	key, err := uc.backups.CreateManual(ctx, content)
	if err != nil {
		return "", domain_dax.NewOperationError(LabelBackup, domain_dax.ErrIoFailure, err.Error())
	}
	uc.logger.Info().Str("key", key).Msg("manual backup created")

	if uc.mirrorDir != "" {
		dst := filepath.Join(uc.mirrorDir, domain_dax.MirrorFileName(backupTimestamp(key)))
		if err := uc.documents.Mirror(context.WithoutCancel(ctx), dst); err != nil {
			uc.logger.Warn().Err(err).Str("dst", dst).Msg("backup mirror failed")
		} else {
			uc.logger.Debug().Str("dst", dst).Msg("backup mirrored")
		}
	}
	return key, nil
}

// backupTimestamp recovers the envelope timestamp from a manual key.
func backupTimestamp(key string) string {
	ms, err := strconv.ParseInt(strings.TrimPrefix(key, domain_dax.ManualBackupPrefix), 10, 64)
	if err != nil {
		return domain_dax.FormatBackupTimestamp(time.Now())
	}
	return domain_dax.FormatBackupTimestamp(time.UnixMilli(ms))
}

func (uc *daxEqualizerUsecase) ListBackups(ctx context.Context) ([]domain_dax.BackupSnapshot, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	list, err := uc.backups.List(ctx)
	if err != nil {
		return nil, domain_dax.NewOperationError("Failed to list backups", domain_dax.ErrIoFailure, err.Error())
	}
	return list, nil
}

// Restore writes the snapshot back over the live file and reloads. Unsaved
// edits are discarded.
func (uc *daxEqualizerUsecase) Restore(ctx context.Context, key string) (domain_dax.EditState, []domain_dax.StepResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	if key == "" {
		return uc.snapshot(), nil, operationError(LabelRestore, fmt.Errorf("%w: backup key is empty", domain_dax.ErrInvalidArgument))
	}

	content, err := uc.backups.Restore(ctx, key)
	if err != nil {
		return uc.snapshot(), nil, operationError(LabelRestore, err)
	}

	steps, err := uc.documents.WriteThrough(context.WithoutCancel(ctx), content, repository_dax.RestoreTempName)
	if err != nil {
		return uc.snapshot(), steps, operationError(LabelRestore, err)
	}
	uc.logger.Info().Str("key", key).Msg("backup restored")

	state, err := uc.load(ctx, "")
	return state, steps, err
}

// snapshot returns a copy of the working state that shares nothing with it.
func (uc *daxEqualizerUsecase) snapshot() domain_dax.EditState {
	s := uc.state
	s.CurrentProfile = cloneProfile(uc.state.CurrentProfile)
	if uc.state.CurrentPreset != nil {
		p := *uc.state.CurrentPreset
		p.Bands = domain_dax.CloneBands(p.Bands)
		s.CurrentPreset = &p
	}
	s.Bands = domain_dax.CloneBands(uc.state.Bands)
	if s.Bands == nil {
		s.Bands = []domain_dax.Band{}
	}
	return s
}

func cloneProfile(p *domain_dax.Profile) *domain_dax.Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.PresetRefs = append([]domain_dax.PresetRef(nil), p.PresetRefs...)
	return &out
}

var taxonomy = []error{
	domain_dax.ErrSaveAmbiguous,
	domain_dax.ErrParseFailure,
	domain_dax.ErrNotFound,
	domain_dax.ErrCorrupt,
	domain_dax.ErrInvalidArgument,
	domain_dax.ErrIoFailure,
}

// operationError classifies err into the sentinel taxonomy; anything
// unrecognised is reported as an IoFailure.
func operationError(label string, err error) error {
	var opErr *domain_dax.OperationError
	if errors.As(err, &opErr) {
		return opErr
	}
	kind := domain_dax.ErrIoFailure
	for _, sentinel := range taxonomy {
		if errors.Is(err, sentinel) {
			kind = sentinel
			break
		}
	}
	return &domain_dax.OperationError{Label: label, Detail: detailOf(err), Err: kind}
}

// detailOf strips the leading taxonomy prefixes from err's text; the kind
// is carried by OperationError.Err already.
func detailOf(err error) string {
	msg := err.Error()
	for trimmed := true; trimmed; {
		trimmed = false
		for _, sentinel := range taxonomy {
			if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
				msg, trimmed = rest, true
			}
		}
	}
	return msg
}

func invalidArgument(format string, args ...interface{}) error {
	return domain_dax.NewOperationError(LabelEdit, domain_dax.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
