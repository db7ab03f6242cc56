// Package dax_xml converts between the DAX configuration document and the
// typed ConfigModel.
//
// The document is kept as an opaque etree tree: Merge edits one preset's band
// wrapper in place and writes the tree back, so vendor elements and
// attributes the model does not know about survive a save.
package dax_xml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain/domain_dax"
	"github.com/beevik/etree"
)

const (
	tagRoot       = "dax_config"
	tagProfiles   = "profiles"
	tagProfile    = "profile"
	tagPreset     = "preset"
	tagData       = "data"
	tagIeqBands   = "ieq-bands"
	tagGeqBands   = "graphic-equalizer-bands"
	tagBandIeq    = "band_ieq"
	tagBandGeq    = "band_geq"
	attrID        = "id"
	attrName      = "name"
	attrGroup     = "group"
	attrType      = "type"
	attrFrequency = "frequency"
	attrTarget    = "target"
	attrGain      = "gain"
	attrVersion   = "version"
)

var encodingDecl = regexp.MustCompile(`encoding\s*=\s*("[^"]*"|'[^']*')`)

// ReadDocument checks text for well-formedness and loads it into a tree.
// A malformed document yields a *domain_dax.ParseError carrying the XML
// parser's message.
func ReadDocument(text string) (*etree.Document, error) {
	normalized, err := normalizeText(text)
	if err != nil {
		return nil, &domain_dax.ParseError{Detail: err.Error(), Cause: err}
	}
	if err := checkWellFormed(normalized); err != nil {
		return nil, &domain_dax.ParseError{Detail: err.Error(), Cause: err}
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromString(normalized); err != nil {
		return nil, &domain_dax.ParseError{Detail: err.Error(), Cause: err}
	}
	return doc, nil
}

// checkWellFormed runs the strict encoding/xml tokenizer over the whole
// document; etree alone accepts some unbalanced input.
func checkWellFormed(text string) error {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = true
	dec.CharsetReader = charsetReader
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Serialize writes doc as canonical text: whitespace-only text nodes are
// dropped, the XML declaration is forced to UTF-8 and the result is passed
// through Format. doc itself is not modified.
func Serialize(doc *etree.Document) (string, error) {
	out := doc.Copy()
	stripWhitespace(&out.Element)
	forceUTF8Declaration(out)

	text, err := out.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	return Format(text), nil
}

// BuildDocument produces a full document from model: one <profile> per
// profile under <profiles>, each holding its presets. Presets whose profile
// is not in the model are placed directly under the root element.
func BuildDocument(model *domain_dax.ConfigModel) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(tagRoot)
	root.CreateAttr(attrVersion, "1.0")
	profilesEl := root.CreateElement(tagProfiles)

	if model == nil {
		return doc
	}

	placed := make(map[int]bool, len(model.Presets))
	for _, profile := range model.Profiles {
		pe := profilesEl.CreateElement(tagProfile)
		pe.CreateAttr(attrID, profile.ID)
		pe.CreateAttr(attrName, profile.Name)
		pe.CreateAttr(attrGroup, profile.Group)
		for i, preset := range model.Presets {
			if placed[i] || preset.ProfileID != profile.ID {
				continue
			}
			placed[i] = true
			writePreset(pe, preset)
		}
	}
	for i, preset := range model.Presets {
		if !placed[i] {
			writePreset(root, preset)
		}
	}
	return doc
}

func writePreset(parent *etree.Element, preset domain_dax.Preset) {
	pe := parent.CreateElement(tagPreset)
	pe.CreateAttr(attrID, preset.ID)
	pe.CreateAttr(attrType, string(preset.Type))
	data := pe.CreateElement(tagData)
	if preset.Type.Valid() {
		data.AddChild(buildWrapper(preset.Type, preset.Bands))
	}
}

// buildWrapper creates the band-space wrapper for eqType holding bands in
// the given order.
func buildWrapper(eqType domain_dax.EqType, bands []domain_dax.Band) *etree.Element {
	if eqType == domain_dax.EqTypeIEQ {
		wrapper := etree.NewElement(tagIeqBands)
		for _, b := range bands {
			be := wrapper.CreateElement(tagBandIeq)
			be.CreateAttr(attrFrequency, fmt.Sprintf("%d", b.Frequency))
			be.CreateAttr(attrTarget, fmt.Sprintf("%d", b.TargetValue()))
		}
		return wrapper
	}
	wrapper := etree.NewElement(tagGeqBands)
	for _, b := range bands {
		be := wrapper.CreateElement(tagBandGeq)
		be.CreateAttr(attrFrequency, fmt.Sprintf("%d", b.Frequency))
		be.CreateAttr(attrGain, formatGain(b.GainValue()))
	}
	return wrapper
}

func stripWhitespace(e *etree.Element) {
	for i := len(e.Child) - 1; i >= 0; i-- {
		switch t := e.Child[i].(type) {
		case *etree.CharData:
			if strings.TrimSpace(t.Data) == "" {
				e.RemoveChildAt(i)
			}
		case *etree.Element:
			stripWhitespace(t)
		}
	}
}

func forceUTF8Declaration(doc *etree.Document) {
	for _, t := range doc.Child {
		pi, ok := t.(*etree.ProcInst)
		if !ok || pi.Target != "xml" {
			continue
		}
		if encodingDecl.MatchString(pi.Inst) {
			pi.Inst = encodingDecl.ReplaceAllString(pi.Inst, `encoding="UTF-8"`)
		}
	}
}
