package domain_dax

import "math"

// EqType is the equalizer kind of a preset, as written in the preset's type attribute.
type EqType string

const (
	EqTypeIEQ EqType = "ieq"
	EqTypeGEQ EqType = "geq"
)

// Valid reports whether t is one of the two known equalizer kinds.
func (t EqType) Valid() bool {
	return t == EqTypeIEQ || t == EqTypeGEQ
}

// EditMode selects the band space the working array is edited in.
type EditMode string

const (
	ModeSimple   EditMode = "simple"
	ModeAdvanced EditMode = "advanced"
)

func (m EditMode) Valid() bool {
	return m == ModeSimple || m == ModeAdvanced
}

const (
	MinGainDB   = -12.0
	MaxGainDB   = 12.0
	MinTarget   = -1000
	MaxTarget   = 1000
	TargetPerDB = 100
)

// Band is one frequency's value. IEQ bands carry Target, GEQ bands carry Gain;
// a working band may hold both after edits in different views.
type Band struct {
	Frequency int      `json:"frequency"`
	Gain      *float64 `json:"gain,omitempty"`
	Target    *int     `json:"target,omitempty"`
}

func GainBand(frequency int, gain float64) Band {
	return Band{Frequency: frequency, Gain: &gain}
}

func TargetBand(frequency, target int) Band {
	return Band{Frequency: frequency, Target: &target}
}

// GainValue returns the gain in dB, zero when the band has none.
func (b Band) GainValue() float64 {
	if b.Gain == nil {
		return 0
	}
	return *b.Gain
}

// TargetValue returns the IEQ target: the stored target when present,
// otherwise the gain converted to device units (dB x 100, rounded).
func (b Band) TargetValue() int {
	if b.Target != nil {
		return *b.Target
	}
	return int(math.Round(b.GainValue() * TargetPerDB))
}

// Clone returns a copy that shares no pointers with b.
func (b Band) Clone() Band {
	out := Band{Frequency: b.Frequency}
	if b.Gain != nil {
		g := *b.Gain
		out.Gain = &g
	}
	if b.Target != nil {
		t := *b.Target
		out.Target = &t
	}
	return out
}

func CloneBands(bands []Band) []Band {
	if bands == nil {
		return nil
	}
	out := make([]Band, len(bands))
	for i, b := range bands {
		out[i] = b.Clone()
	}
	return out
}

func ClampGain(gain float64) float64 {
	return math.Max(MinGainDB, math.Min(MaxGainDB, gain))
}

func ClampTarget(target int) int {
	if target < MinTarget {
		return MinTarget
	}
	if target > MaxTarget {
		return MaxTarget
	}
	return target
}
