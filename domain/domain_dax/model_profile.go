package domain_dax

const (
	DefaultProfileGroup = "default"
	UnknownProfileID    = "unknown"
	CustomPresetID      = "custom_preset"
)

// PresetRef is a preset declared under a profile, in document order.
type PresetRef struct {
	ID   string `json:"id"`
	Type EqType `json:"type"`
}

// Profile identifies an audio-processing context, e.g. "music".
type Profile struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Group      string      `json:"group"`
	PresetRefs []PresetRef `json:"presets"`
}

// Preset is one tuning configuration owned by a single profile.
type Preset struct {
	ID        string `json:"id"`
	Type      EqType `json:"type"`
	ProfileID string `json:"profileId"`
	Bands     []Band `json:"bands"`
}

// ConfigModel is the typed view of the whole DAX document.
type ConfigModel struct {
	Profiles []Profile `json:"profiles"`
	Presets  []Preset  `json:"presets"`
}

func (m *ConfigModel) FindProfile(id string) (*Profile, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Profiles {
		if m.Profiles[i].ID == id {
			return &m.Profiles[i], true
		}
	}
	return nil, false
}

func (m *ConfigModel) FindPreset(id string) (*Preset, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.Presets {
		if m.Presets[i].ID == id {
			return &m.Presets[i], true
		}
	}
	return nil, false
}

// PresetsForProfile returns the presets owned by profileID in document order.
// An empty profileID returns every preset.
func (m *ConfigModel) PresetsForProfile(profileID string) []Preset {
	if m == nil {
		return nil
	}
	out := make([]Preset, 0, len(m.Presets))
	for _, p := range m.Presets {
		if profileID == "" || p.ProfileID == profileID {
			out = append(out, p)
		}
	}
	return out
}

// Clone deep-copies the model.
func (m *ConfigModel) Clone() *ConfigModel {
	if m == nil {
		return nil
	}
	out := &ConfigModel{
		Profiles: make([]Profile, len(m.Profiles)),
		Presets:  make([]Preset, len(m.Presets)),
	}
	for i, p := range m.Profiles {
		p.PresetRefs = append([]PresetRef(nil), p.PresetRefs...)
		out.Profiles[i] = p
	}
	for i, p := range m.Presets {
		p.Bands = CloneBands(p.Bands)
		out.Presets[i] = p
	}
	return out
}

// DefaultModel is the fallback used when the document cannot be parsed or
// holds no profiles/presets: profile "music" with one IEQ and one GEQ preset,
// all bands zero over the simple frequencies.
func DefaultModel() *ConfigModel {
	ieq := make([]Band, len(simpleFrequencies))
	geq := make([]Band, len(simpleFrequencies))
	for i, f := range simpleFrequencies {
		ieq[i] = TargetBand(f, 0)
		geq[i] = GainBand(f, 0)
	}
	return &ConfigModel{
		Profiles: []Profile{{
			ID:    "music",
			Name:  "Music",
			Group: "media",
			PresetRefs: []PresetRef{
				{ID: "music_ieq", Type: EqTypeIEQ},
				{ID: "music_geq", Type: EqTypeGEQ},
			},
		}},
		Presets: []Preset{
			{ID: "music_ieq", Type: EqTypeIEQ, ProfileID: "music", Bands: ieq},
			{ID: "music_geq", Type: EqTypeGEQ, ProfileID: "music", Bands: geq},
		},
	}
}
