package dax_xml

import (
	"errors"
	"strings"
	"testing"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain/domain_dax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestParseSampleDocument(t *testing.T) {
	model, err := Parse(sampleDocument)
	require.NoError(t, err)

	require.Len(t, model.Profiles, 2)
	music := model.Profiles[0]
	assert.Equal(t, "music", music.ID)
	assert.Equal(t, "Music", music.Name)
	assert.Equal(t, "media", music.Group)
	assert.Equal(t, []domain_dax.PresetRef{
		{ID: "music_ieq", Type: domain_dax.EqTypeIEQ},
		{ID: "music_geq", Type: domain_dax.EqTypeGEQ},
	}, music.PresetRefs)

	game := model.Profiles[1]
	assert.Equal(t, "game", game.Name, "name falls back to id")
	assert.Equal(t, domain_dax.DefaultProfileGroup, game.Group)

	require.Len(t, model.Presets, 3)
	ieq := model.Presets[0]
	assert.Equal(t, "music", ieq.ProfileID)
	require.Len(t, ieq.Bands, 10)
	for i, b := range ieq.Bands {
		assert.Equal(t, domain_dax.SimpleFrequencies()[i], b.Frequency)
		require.NotNil(t, b.Target)
		assert.Equal(t, 0, *b.Target)
		assert.Nil(t, b.Gain)
	}

	geq := model.Presets[1]
	require.Len(t, geq.Bands, 3)
	assert.Equal(t, 1.5, geq.Bands[0].GainValue())
	assert.Equal(t, -2.0, geq.Bands[1].GainValue())
}

func TestParseLenientNumbers(t *testing.T) {
	model, err := Parse(sampleDocument)
	require.NoError(t, err)

	game, ok := model.FindPreset("game_geq")
	require.True(t, ok)
	assert.Equal(t, "game", game.ProfileID)

	// "abc" is dropped, "141Hz" reads as 141 and a bad gain reads as zero.
	require.Len(t, game.Bands, 2)
	assert.Equal(t, 47, game.Bands[0].Frequency)
	assert.Equal(t, 3.25, game.Bands[0].GainValue())
	assert.Equal(t, 141, game.Bands[1].Frequency)
	assert.Equal(t, 0.0, game.Bands[1].GainValue())
}

func TestParsePresetOutsideProfile(t *testing.T) {
	doc := `<dax_config>
  <profile id="p"/>
  <preset id="loose" type="ieq"><data><ieq-bands><band_ieq frequency="47" target="12.9"/></ieq-bands></data></preset>
</dax_config>`

	model, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, model.Presets, 1)
	assert.Equal(t, domain_dax.UnknownProfileID, model.Presets[0].ProfileID)
	assert.Equal(t, 12, model.Presets[0].Bands[0].TargetValue())
	assert.Empty(t, model.Profiles[0].PresetRefs)

	text, err := Serialize(BuildDocument(model))
	require.NoError(t, err)
	again, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, model, again)
}

func TestParseUnknownTypeHasNoBands(t *testing.T) {
	doc := `<dax_config><profile id="p"><preset id="x" type="mystery"><data><ieq-bands><band_ieq frequency="47" target="1"/></ieq-bands></data></preset></profile></dax_config>`

	model, err := Parse(doc)
	require.NoError(t, err)
	assert.Empty(t, model.Presets[0].Bands)
	assert.NotNil(t, model.Presets[0].Bands)
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		detail string
	}{
		{"Unclosed", `<dax_config><profile id="a"></dax_config>`, ""},
		{"NotXML", `this is not xml`, ""},
		{"Empty", ``, ""},
		{"NoProfiles", `<dax_config><preset id="x" type="geq"/></dax_config>`, "no profiles or presets"},
		{"NoPresets", `<dax_config><profile id="a"/></dax_config>`, "no profiles or presets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := Parse(tt.input)
			assert.Nil(t, model)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain_dax.ErrParseFailure))

			var pe *domain_dax.ParseError
			require.True(t, errors.As(err, &pe))
			assert.NotEmpty(t, pe.Detail)
			if tt.detail != "" {
				assert.Contains(t, pe.Detail, tt.detail)
			}
		})
	}
}

func TestParseMalformedCarriesParserText(t *testing.T) {
	_, err := Parse(`<dax_config><profile id="a"></dax_config>`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XML syntax error")
}

func TestParseRoundTrip(t *testing.T) {
	first, err := Parse(sampleDocument)
	require.NoError(t, err)

	text, err := Serialize(BuildDocument(first))
	require.NoError(t, err)

	second, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseKeepsDocumentOrderAcrossDepths(t *testing.T) {
	doc := `<dax_config>
  <group><profile id="A"><tuning><preset id="a1" type="geq"><data><graphic-equalizer-bands>
    <band_geq frequency="47" gain="1"/>
    <nested><band_geq frequency="141" gain="2"/></nested>
    <band_geq frequency="234" gain="3"/>
  </graphic-equalizer-bands></data></preset></tuning><preset id="a2" type="geq"/></profile></group>
  <profile id="B"><preset id="b1" type="geq"/></profile>
</dax_config>`

	model, err := Parse(doc)
	require.NoError(t, err)

	require.Len(t, model.Profiles, 2)
	assert.Equal(t, "A", model.Profiles[0].ID)
	assert.Equal(t, "B", model.Profiles[1].ID)
	assert.Equal(t, []domain_dax.PresetRef{
		{ID: "a1", Type: domain_dax.EqTypeGEQ},
		{ID: "a2", Type: domain_dax.EqTypeGEQ},
	}, model.Profiles[0].PresetRefs)

	ids := make([]string, len(model.Presets))
	for i, p := range model.Presets {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"a1", "a2", "b1"}, ids)

	freqs := make([]int, len(model.Presets[0].Bands))
	for i, b := range model.Presets[0].Bands {
		freqs[i] = b.Frequency
	}
	assert.Equal(t, []int{47, 141, 234}, freqs)

	text, err := Serialize(BuildDocument(model))
	require.NoError(t, err)
	again, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, model, again)
}

func TestParseDefaultModelRoundTrip(t *testing.T) {
	text, err := Serialize(BuildDocument(domain_dax.DefaultModel()))
	require.NoError(t, err)

	model, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, domain_dax.DefaultModel(), model)
	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))
}

func TestParseByteOrderMark(t *testing.T) {
	model, err := Parse("\xEF\xBB\xBF" + sampleDocument)
	require.NoError(t, err)
	assert.Len(t, model.Presets, 3)
}

func TestParseUTF16(t *testing.T) {
	src := strings.Replace(sampleDocument, `encoding="UTF-8"`, `encoding="UTF-16"`, 1)
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(src)
	require.NoError(t, err)

	model, err := Parse(encoded)
	require.NoError(t, err)
	assert.Len(t, model.Profiles, 2)
}

func TestParseLatin1Declaration(t *testing.T) {
	src := `<?xml version="1.0" encoding="ISO-8859-1"?>` +
		`<dax_config><profile id="cafe" name="Café"><preset id="c" type="geq"/></profile></dax_config>`
	encoded, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	model, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, "Café", model.Profiles[0].Name)

	doc, err := ReadDocument(encoded)
	require.NoError(t, err)
	out, err := Serialize(doc)
	require.NoError(t, err)
	assert.Contains(t, out, `encoding="UTF-8"`)
	assert.Contains(t, out, "Café")
}
