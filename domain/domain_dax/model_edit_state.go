package domain_dax

import "github.com/Aurora-Nasa-1/101216MISoundBoost/domain"

// Status is the service lifecycle state.
type Status string

const (
	StatusUnloaded Status = "UNLOADED"
	StatusLoading  Status = "LOADING"
	StatusReady    Status = "READY"
	StatusDirty    Status = "DIRTY"
	StatusSaving   Status = "SAVING"
	StatusError    Status = "ERROR"
)

// EditState is a copy of the working edit state handed to callers.
type EditState struct {
	Status         Status   `json:"status"`
	Mode           EditMode `json:"mode"`
	ActiveEqType   EqType   `json:"activeEqType"`
	CurrentProfile *Profile `json:"currentProfile"`
	CurrentPreset  *Preset  `json:"currentPreset"`
	Bands          []Band   `json:"bands"`
	IsDirty        bool     `json:"isDirty"`
	Notice         string   `json:"notice,omitempty"`
}

// PresetOption is one entry of the preset selector.
type PresetOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// StepResult is the outcome of one step of a multi-step write.
type StepResult struct {
	Name   string            `json:"name"`
	Path   string            `json:"path"`
	Result domain.ExecResult `json:"result"`
	Err    error             `json:"-"`
}

func (s StepResult) OK() bool {
	return s.Err == nil && s.Result.OK()
}

// Step names of the write sequences.
const (
	StepMakeDirs  = "mkdir"
	StepWriteTemp = "write_temp"
	StepCopy      = "copy"
	StepRemove    = "remove_temp"
	StepChmod     = "chmod"
)
