package dax_xml

import (
	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain/domain_dax"
	"github.com/beevik/etree"
)

// Parse reads the document text into a ConfigModel.
//
// Profiles and presets are collected wherever they appear in the tree; a
// preset belongs to its nearest <profile> ancestor. Bands with a
// non-numeric frequency are dropped, non-numeric values read as zero.
// A malformed document, or one without any profile or preset, fails with
// a *domain_dax.ParseError.
func Parse(text string) (*domain_dax.ConfigModel, error) {
	doc, err := ReadDocument(text)
	if err != nil {
		return nil, err
	}
	return parseDocument(doc)
}

func parseDocument(doc *etree.Document) (*domain_dax.ConfigModel, error) {
	model := &domain_dax.ConfigModel{
		Profiles: []domain_dax.Profile{},
		Presets:  []domain_dax.Preset{},
	}

	for _, pe := range descendants(&doc.Element, tagProfile) {
		id := pe.SelectAttrValue(attrID, "")
		profile := domain_dax.Profile{
			ID:         id,
			Name:       pe.SelectAttrValue(attrName, ""),
			Group:      pe.SelectAttrValue(attrGroup, ""),
			PresetRefs: []domain_dax.PresetRef{},
		}
		if profile.Name == "" {
			profile.Name = id
		}
		if profile.Group == "" {
			profile.Group = domain_dax.DefaultProfileGroup
		}
		for _, ref := range descendants(pe, tagPreset) {
			profile.PresetRefs = append(profile.PresetRefs, domain_dax.PresetRef{
				ID:   ref.SelectAttrValue(attrID, ""),
				Type: domain_dax.EqType(ref.SelectAttrValue(attrType, "")),
			})
		}
		model.Profiles = append(model.Profiles, profile)
	}

	for _, pe := range descendants(&doc.Element, tagPreset) {
		preset := domain_dax.Preset{
			ID:        pe.SelectAttrValue(attrID, ""),
			Type:      domain_dax.EqType(pe.SelectAttrValue(attrType, "")),
			ProfileID: owningProfileID(pe),
			Bands:     readBands(pe, domain_dax.EqType(pe.SelectAttrValue(attrType, ""))),
		}
		model.Presets = append(model.Presets, preset)
	}

	if len(model.Profiles) == 0 || len(model.Presets) == 0 {
		return nil, &domain_dax.ParseError{Detail: "document contains no profiles or presets"}
	}
	return model, nil
}

func owningProfileID(e *etree.Element) string {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if p.Tag == tagProfile {
			return p.SelectAttrValue(attrID, "")
		}
	}
	return domain_dax.UnknownProfileID
}

func readBands(preset *etree.Element, eqType domain_dax.EqType) []domain_dax.Band {
	bands := []domain_dax.Band{}
	switch eqType {
	case domain_dax.EqTypeIEQ:
		for _, be := range descendants(preset, tagBandIeq) {
			freq, ok := parseLeadingInt(be.SelectAttrValue(attrFrequency, ""))
			if !ok {
				continue
			}
			target, _ := parseLeadingInt(be.SelectAttrValue(attrTarget, ""))
			bands = append(bands, domain_dax.TargetBand(freq, target))
		}
	case domain_dax.EqTypeGEQ:
		for _, be := range descendants(preset, tagBandGeq) {
			freq, ok := parseLeadingInt(be.SelectAttrValue(attrFrequency, ""))
			if !ok {
				continue
			}
			gain, _ := parseLeadingFloat(be.SelectAttrValue(attrGain, ""))
			bands = append(bands, domain_dax.GainBand(freq, gain))
		}
	}
	return bands
}

// descendants returns every element below e whose tag is one of tags, in
// document order. etree's "//" path search is breadth-first.
func descendants(e *etree.Element, tags ...string) []*etree.Element {
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(parent *etree.Element) {
		for _, child := range parent.ChildElements() {
			for _, tag := range tags {
				if child.Tag == tag {
					out = append(out, child)
					break
				}
			}
			walk(child)
		}
	}
	walk(e)
	return out
}

func firstDescendant(e *etree.Element, tag string) *etree.Element {
	if found := descendants(e, tag); len(found) > 0 {
		return found[0]
	}
	return nil
}
