package dax_xml

import (
	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain/domain_dax"
	"github.com/beevik/etree"
)

// MergeOutcome tells the caller what Merge did to the document.
type MergeOutcome int

const (
	// MergeUnchanged: the target preset was not found, the text is returned as is.
	MergeUnchanged MergeOutcome = iota
	// MergeUpdated: an existing preset's bands were replaced.
	MergeUpdated
	// MergeAppended: a custom preset was added to the first profile.
	MergeAppended
)

func (o MergeOutcome) String() string {
	switch o {
	case MergeUpdated:
		return "updated"
	case MergeAppended:
		return "appended"
	default:
		return "unchanged"
	}
}

// Merge writes bands into one preset of the existing document and returns
// the re-serialized text.
//
// With a non-empty targetPresetID the matching <preset> loses every band
// element and band wrapper it holds, and a fresh wrapper for eqType is put
// where the first old wrapper was (or into <data>, created when missing).
// With an empty targetPresetID the bands go into the "custom_preset"
// preset, which is appended to the first <profile> when it does not exist
// yet. A later custom save rewrites that same preset in place instead of
// appending a second one, so preset ids stay unique. Nothing else in the
// document is touched.
func Merge(text, targetPresetID string, eqType domain_dax.EqType, bands []domain_dax.Band) (string, MergeOutcome, error) {
	doc, err := ReadDocument(text)
	if err != nil {
		return "", MergeUnchanged, err
	}

	outcome := MergeUnchanged
	if targetPresetID != "" {
		if preset := findPreset(doc, targetPresetID); preset != nil {
			replaceBands(preset, eqType, bands)
			outcome = MergeUpdated
		}
	} else if preset := findPreset(doc, domain_dax.CustomPresetID); preset != nil {
		replaceBands(preset, eqType, bands)
		outcome = MergeUpdated
	} else if profile := firstDescendant(&doc.Element, tagProfile); profile != nil {
		preset := etree.NewElement(tagPreset)
		preset.CreateAttr(attrID, domain_dax.CustomPresetID)
		preset.CreateAttr(attrType, string(domain_dax.EqTypeGEQ))
		preset.CreateElement(tagData).AddChild(buildWrapper(eqType, bands))
		profile.AddChild(preset)
		outcome = MergeAppended
	}

	if outcome == MergeUnchanged {
		return text, outcome, nil
	}
	out, err := Serialize(doc)
	if err != nil {
		return "", MergeUnchanged, err
	}
	return out, outcome, nil
}

func findPreset(doc *etree.Document, id string) *etree.Element {
	for _, pe := range descendants(&doc.Element, tagPreset) {
		if pe.SelectAttrValue(attrID, "") == id {
			return pe
		}
	}
	return nil
}

func replaceBands(preset *etree.Element, eqType domain_dax.EqType, bands []domain_dax.Band) {
	wrapper := buildWrapper(eqType, bands)

	stale := descendants(preset, tagIeqBands, tagGeqBands, tagBandIeq, tagBandGeq)

	placed := false
	for _, e := range stale {
		if e.Tag == tagIeqBands || e.Tag == tagGeqBands {
			e.Parent().InsertChildAt(e.Index(), wrapper)
			placed = true
			break
		}
	}
	if !placed {
		data := firstDescendant(preset, tagData)
		if data == nil {
			data = preset.CreateElement(tagData)
		}
		data.AddChild(wrapper)
	}

	// Reverse document order drops band elements before their wrapper.
	for i := len(stale) - 1; i >= 0; i-- {
		if parent := stale[i].Parent(); parent != nil {
			parent.RemoveChild(stale[i])
		}
	}
}
