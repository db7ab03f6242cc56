package domain_dax

// BuiltinPreset is a fixed 10-value dB curve aligned by index to the simple
// frequency list.
type BuiltinPreset struct {
	Name     string    `json:"name"`
	LabelKey string    `json:"labelKey"`
	Values   []float64 `json:"values"`
}

var builtinPresets = map[string]BuiltinPreset{
	"flat":      {Name: "flat", LabelKey: "presetFlat", Values: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	"bass":      {Name: "bass", LabelKey: "presetBass", Values: []float64{6, 4, 2, 1, 0, 0, 0, 0, 0, 0}},
	"vocal":     {Name: "vocal", LabelKey: "presetVocal", Values: []float64{-2, -1, 1, 3, 4, 3, 1, -1, -2, -2}},
	"treble":    {Name: "treble", LabelKey: "presetTreble", Values: []float64{0, 0, 0, 0, 0, 1, 2, 4, 6, 8}},
	"rock":      {Name: "rock", LabelKey: "presetRock", Values: []float64{4, 2, -1, -2, 0, 1, 3, 4, 3, 2}},
	"pop":       {Name: "pop", LabelKey: "presetPop", Values: []float64{-1, 2, 4, 4, 1, -1, -1, 1, 2, 3}},
	"classical": {Name: "classical", LabelKey: "presetClassical", Values: []float64{3, 2, -1, -2, -1, 1, 2, 3, 4, 4}},
	"jazz":      {Name: "jazz", LabelKey: "presetJazz", Values: []float64{2, 1, 1, -1, -2, -1, 1, 2, 3, 4}},
}

// builtinOrder is the button order of the simple view.
var builtinOrder = []string{"flat", "bass", "vocal", "treble", "rock", "pop", "classical", "jazz"}

// BuiltinPresetNames returns the known preset names in display order.
func BuiltinPresetNames() []string {
	return append([]string(nil), builtinOrder...)
}

// FindBuiltinPreset returns a deep copy of the named preset.
func FindBuiltinPreset(name string) (BuiltinPreset, bool) {
	p, ok := builtinPresets[name]
	if !ok {
		return BuiltinPreset{}, false
	}
	p.Values = append([]float64(nil), p.Values...)
	return p, true
}

// BuiltinPresets returns copies of every built-in preset in display order.
func BuiltinPresets() []BuiltinPreset {
	out := make([]BuiltinPreset, 0, len(builtinPresets))
	for _, name := range builtinOrder {
		p, _ := FindBuiltinPreset(name)
		out = append(out, p)
	}
	return out
}

// ApplyPreset returns a new band array with the named preset's values written
// as gains at indices 0..9. Bands past the preset's length are copied
// unchanged; missing bands are created with the simple frequency of their
// index. The written bands drop any stored target so an IEQ save derives it
// from the gain. An unknown name returns an unchanged copy and ok=false.
func ApplyPreset(name string, current []Band) ([]Band, bool) {
	return ApplyPresetFor(ModeSimple, name, current)
}

// ApplyPresetFor is ApplyPreset with missing bands taking their frequency
// from mode's list.
func ApplyPresetFor(mode EditMode, name string, current []Band) ([]Band, bool) {
	preset, ok := builtinPresets[name]
	if !ok {
		return CloneBands(current), false
	}

	size := len(current)
	if size < len(preset.Values) {
		size = len(preset.Values)
	}
	out := make([]Band, size)
	copy(out, CloneBands(current))

	for i, v := range preset.Values {
		freq := out[i].Frequency
		if i >= len(current) || freq == 0 {
			freq = framesRef(mode)[i]
		}
		out[i] = GainBand(freq, ClampGain(v))
	}
	return out, true
}
