package catalog

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// JSON shapes of the string catalog file format. Domain types carry no
// serialization concerns; these mirror the file and are mapped on the way in.
// Members outside the known fields are kept as raw JSON in extra.

type catalogJSON struct {
	SourceLanguage   string                `json:"sourceLanguage,omitempty"`
	AvailableLocales []string              `json:"availableLocales,omitempty"`
	Strings          map[string]*entryJSON `json:"strings"`
	Version          string                `json:"version,omitempty"`

	extra map[string]json.RawMessage
}

type entryJSON struct {
	Comment         string                 `json:"comment,omitempty"`
	ExtractionState string                 `json:"extractionState,omitempty"`
	Localizations   map[string]*recordJSON `json:"localizations,omitempty"`
	ShouldTranslate *bool                  `json:"shouldTranslate,omitempty"`
	Value           *string                `json:"value,omitempty"`

	extra map[string]json.RawMessage
}

type recordJSON struct {
	Comment    string                            `json:"comment,omitempty"`
	StringUnit *unitJSON                         `json:"stringUnit,omitempty"`
	Variations map[string]map[string]*recordJSON `json:"variations,omitempty"`

	order []domain.VariationRef
	extra map[string]json.RawMessage
}

type unitJSON struct {
	State string `json:"state,omitempty"`
	Value string `json:"value"`
}

func (c *catalogJSON) UnmarshalJSON(b []byte) error {
	type plain catalogJSON
	if err := json.Unmarshal(b, (*plain)(c)); err != nil {
		return err
	}
	c.extra = extraMembers(gjson.ParseBytes(b), documentFields)
	return nil
}

func (e *entryJSON) UnmarshalJSON(b []byte) error {
	type plain entryJSON
	if err := json.Unmarshal(b, (*plain)(e)); err != nil {
		return err
	}
	e.extra = extraMembers(gjson.ParseBytes(b), entryFields)
	return nil
}

func (r *recordJSON) UnmarshalJSON(b []byte) error {
	type plain recordJSON
	if err := json.Unmarshal(b, (*plain)(r)); err != nil {
		return err
	}
	obj := gjson.ParseBytes(b)
	r.extra = extraMembers(obj, recordFields)
	r.order = nil
	obj.Get("variations").ForEach(func(sel, cases gjson.Result) bool {
		cases.ForEach(func(c, _ gjson.Result) bool {
			ref := domain.VariationRef{Selector: sel.Str, Case: c.Str}
			if !slices.Contains(r.order, ref) {
				r.order = append(r.order, ref)
			}
			return true
		})
		return true
	})
	return nil
}

func (e entryJSON) MarshalJSON() ([]byte, error) {
	type plain entryJSON
	return marshalWithExtra(plain(e), e.extra)
}

func (r recordJSON) MarshalJSON() ([]byte, error) {
	type plain recordJSON
	return marshalWithExtra(plain(r), r.extra)
}

// extraMembers returns the members of obj not named in known. The last
// occurrence of a duplicated member wins, as with encoding/json.
func extraMembers(obj gjson.Result, known []string) map[string]json.RawMessage {
	var out map[string]json.RawMessage
	obj.ForEach(func(k, v gjson.Result) bool {
		if slices.Contains(known, k.Str) {
			return true
		}
		if out == nil {
			out = make(map[string]json.RawMessage)
		}
		out[k.Str] = json.RawMessage(v.Raw)
		return true
	})
	return out
}

func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		if b, err = sjson.SetRawBytes(b, gjson.Escape(k), extra[k]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (c *catalogJSON) toDomain() *domain.LocalizationDocument {
	doc := domain.NewDocument(c.SourceLanguage)
	doc.Version = c.Version
	doc.Extra = c.extra
	if len(c.AvailableLocales) > 0 {
		doc.AvailableLocales = append([]string(nil), c.AvailableLocales...)
	}
	for key, e := range c.Strings {
		doc.Strings[key] = e.toDomain()
	}
	return doc
}

func (e *entryJSON) toDomain() *domain.StringEntry {
	if e == nil {
		return &domain.StringEntry{}
	}
	out := &domain.StringEntry{
		Comment:         e.Comment,
		ExtractionState: domain.ExtractionState(e.ExtractionState),
		DoNotTranslate:  e.ShouldTranslate != nil && !*e.ShouldTranslate,
		Value:           e.Value,
		Extra:           e.extra,
	}
	if len(e.Localizations) > 0 {
		out.Localizations = make(map[string]*domain.LocalizationRecord, len(e.Localizations))
		for locale, r := range e.Localizations {
			out.Localizations[locale] = r.toDomain()
		}
	}
	return out
}

func (r *recordJSON) toDomain() *domain.LocalizationRecord {
	if r == nil {
		return &domain.LocalizationRecord{}
	}
	out := &domain.LocalizationRecord{Comment: r.Comment, Extra: r.extra}
	if r.StringUnit != nil {
		out.StringUnit = &domain.StringUnit{
			State: domain.ReviewState(r.StringUnit.State),
			Value: r.StringUnit.Value,
		}
	}
	if len(r.Variations) > 0 {
		out.Variations = make(map[string]domain.VariationCases, len(r.Variations))
		for sel, cases := range r.Variations {
			vc := make(domain.VariationCases, len(cases))
			for c, rec := range cases {
				vc[c] = rec.toDomain()
			}
			out.Variations[sel] = vc
		}
		out.VariationOrder = r.order
	}
	return out
}

func entryFromDomain(e *domain.StringEntry) *entryJSON {
	if e == nil {
		return nil
	}
	out := &entryJSON{
		Comment:         e.Comment,
		ExtractionState: string(e.ExtractionState),
		Value:           e.Value,
		extra:           e.Extra,
	}
	if e.DoNotTranslate {
		f := false
		out.ShouldTranslate = &f
	}
	if len(e.Localizations) > 0 {
		out.Localizations = make(map[string]*recordJSON, len(e.Localizations))
		for locale, r := range e.Localizations {
			out.Localizations[locale] = recordFromDomain(r)
		}
	}
	return out
}

func recordFromDomain(r *domain.LocalizationRecord) *recordJSON {
	if r == nil {
		return &recordJSON{}
	}
	out := &recordJSON{Comment: r.Comment, extra: r.Extra}
	if r.StringUnit != nil {
		out.StringUnit = &unitJSON{State: string(r.StringUnit.State), Value: r.StringUnit.Value}
	}
	if len(r.Variations) > 0 {
		out.Variations = make(map[string]map[string]*recordJSON, len(r.Variations))
		for sel, cases := range r.Variations {
			m := make(map[string]*recordJSON, len(cases))
			for c, rec := range cases {
				m[c] = recordFromDomain(rec)
			}
			out.Variations[sel] = m
		}
	}
	return out
}
