package domain

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// LocalizationDocument is the structured form of a string catalog.
type LocalizationDocument struct {
	SourceLanguage   string
	AvailableLocales []string
	Strings          map[string]*StringEntry
	Version          string

	// Extra holds top-level members this model does not interpret, as raw JSON.
	Extra map[string]json.RawMessage
}

// StringEntry holds one catalog key and its per-locale data.
// DoNotTranslate is the inverse of the serialized shouldTranslate flag so
// that the zero value is a translatable entry.
type StringEntry struct {
	Comment         string
	ExtractionState ExtractionState
	DoNotTranslate  bool
	Localizations   map[string]*LocalizationRecord

	// Value is the legacy single value some catalogs carry at entry level.
	Value *string

	// Extra holds members such as isCommentAutoGenerated that this model
	// does not interpret, as raw JSON keyed by member name.
	Extra map[string]json.RawMessage
}

// LocalizationRecord is the data of one entry for one locale.
type LocalizationRecord struct {
	Comment    string
	StringUnit *StringUnit
	Variations map[string]VariationCases

	// VariationOrder is the order variation cases were read in. Cases added
	// later are not listed; VariationRefs sorts them after the listed ones.
	VariationOrder []VariationRef

	// Extra holds members such as substitutions that this model does not
	// interpret, as raw JSON keyed by member name.
	Extra map[string]json.RawMessage
}

// VariationRef names one case of one variation selector.
type VariationRef struct {
	Selector string
	Case     string
}

// VariationCases maps a variant case (one, other, iphone...) to its record.
type VariationCases map[string]*LocalizationRecord

// StringUnit is a translated value and its review state.
type StringUnit struct {
	State ReviewState
	Value string
}

// NewDocument returns an empty document with an initialized strings map.
func NewDocument(sourceLanguage string) *LocalizationDocument {
	return &LocalizationDocument{
		SourceLanguage: sourceLanguage,
		Strings:        make(map[string]*StringEntry),
	}
}

// Entry returns the entry stored under key, or nil.
func (d *LocalizationDocument) Entry(key string) *StringEntry {
	if d == nil || d.Strings == nil {
		return nil
	}
	return d.Strings[key]
}

// HasAvailableLocale reports whether locale is declared, compared case-insensitively.
func (d *LocalizationDocument) HasAvailableLocale(locale string) bool {
	if d == nil {
		return false
	}
	for _, l := range d.AvailableLocales {
		if strings.EqualFold(l, locale) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the document.
func (d *LocalizationDocument) Clone() *LocalizationDocument {
	if d == nil {
		return nil
	}
	out := &LocalizationDocument{
		SourceLanguage:   d.SourceLanguage,
		AvailableLocales: slices.Clone(d.AvailableLocales),
		Strings:          make(map[string]*StringEntry, len(d.Strings)),
		Version:          d.Version,
		Extra:            cloneExtra(d.Extra),
	}
	for k, e := range d.Strings {
		out.Strings[k] = e.Clone()
	}
	return out
}

// ShallowClone copies the document and its strings map but shares entries.
// Callers replace the entries they mutate.
func (d *LocalizationDocument) ShallowClone() *LocalizationDocument {
	if d == nil {
		return nil
	}
	return &LocalizationDocument{
		SourceLanguage:   d.SourceLanguage,
		AvailableLocales: slices.Clone(d.AvailableLocales),
		Strings:          maps.Clone(d.Strings),
		Version:          d.Version,
		Extra:            cloneExtra(d.Extra),
	}
}

// Translatable reports whether the entry should be translated. A nil entry is translatable.
func (e *StringEntry) Translatable() bool {
	return e == nil || !e.DoNotTranslate
}

// Localization returns the record for locale, or nil.
func (e *StringEntry) Localization(locale string) *LocalizationRecord {
	if e == nil || e.Localizations == nil {
		return nil
	}
	return e.Localizations[locale]
}

// Clone returns a deep copy of the entry.
func (e *StringEntry) Clone() *StringEntry {
	if e == nil {
		return nil
	}
	out := &StringEntry{
		Comment:         e.Comment,
		ExtractionState: e.ExtractionState,
		DoNotTranslate:  e.DoNotTranslate,
		Extra:           cloneExtra(e.Extra),
	}
	if e.Value != nil {
		v := *e.Value
		out.Value = &v
	}
	if e.Localizations != nil {
		out.Localizations = make(map[string]*LocalizationRecord, len(e.Localizations))
		for l, r := range e.Localizations {
			out.Localizations[l] = r.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the record.
func (r *LocalizationRecord) Clone() *LocalizationRecord {
	if r == nil {
		return nil
	}
	out := &LocalizationRecord{
		Comment:        r.Comment,
		VariationOrder: slices.Clone(r.VariationOrder),
		Extra:          cloneExtra(r.Extra),
	}
	if r.StringUnit != nil {
		su := *r.StringUnit
		out.StringUnit = &su
	}
	if r.Variations != nil {
		out.Variations = make(map[string]VariationCases, len(r.Variations))
		for sel, cases := range r.Variations {
			out.Variations[sel] = cases.Clone()
		}
	}
	return out
}

// IsEmpty reports whether the record carries nothing worth serializing.
func (r *LocalizationRecord) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Comment == "" && r.StringUnit == nil && len(r.Variations) == 0 && len(r.Extra) == 0
}

// VariationRefs lists the variation cases of the record grouped by
// selector. Selectors and cases named in VariationOrder come first in that
// order; the others follow sorted.
func (r *LocalizationRecord) VariationRefs() []VariationRef {
	if r == nil || len(r.Variations) == 0 {
		return nil
	}
	var sels []string
	casesOf := make(map[string][]string, len(r.Variations))
	for _, ref := range r.VariationOrder {
		if _, ok := r.Variations[ref.Selector][ref.Case]; !ok {
			continue
		}
		if slices.Contains(casesOf[ref.Selector], ref.Case) {
			continue
		}
		if _, ok := casesOf[ref.Selector]; !ok {
			sels = append(sels, ref.Selector)
		}
		casesOf[ref.Selector] = append(casesOf[ref.Selector], ref.Case)
	}
	for _, sel := range slices.Sorted(maps.Keys(r.Variations)) {
		if _, ok := casesOf[sel]; !ok {
			sels = append(sels, sel)
		}
		for _, c := range slices.Sorted(maps.Keys(r.Variations[sel])) {
			if !slices.Contains(casesOf[sel], c) {
				casesOf[sel] = append(casesOf[sel], c)
			}
		}
	}

	var out []VariationRef
	for _, sel := range sels {
		for _, c := range casesOf[sel] {
			out = append(out, VariationRef{Selector: sel, Case: c})
		}
	}
	return out
}

func cloneExtra(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = bytes.Clone(v)
	}
	return out
}
