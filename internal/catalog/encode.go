package catalog

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// Field order of the struct-like objects of the file format.
var (
	documentFields = []string{"sourceLanguage", "availableLocales", "strings", "version"}
	entryFields    = []string{"comment", "extractionState", "localizations", "shouldTranslate", "value"}
	recordFields   = []string{"comment", "stringUnit", "variations"}
	unitFields     = []string{"state", "value"}
)

// jsonObject is an ordered object ready to be written. fields is the fixed
// member order of a struct-like object; map-like objects leave it nil and
// order members by key.
type jsonObject struct {
	members []member
	fields  []string
}

type member struct {
	key   string
	value any // *jsonObject, []string, string, bool or json.RawMessage
}

func (o *jsonObject) add(key string, value any) {
	o.members = append(o.members, member{key: key, value: value})
}

func (o *jsonObject) less(a, b string) bool {
	if o.fields == nil {
		return a < b
	}
	ia, ib := slices.Index(o.fields, a), slices.Index(o.fields, b)
	if ia < 0 {
		ia = len(o.fields)
	}
	if ib < 0 {
		ib = len(o.fields)
	}
	if ia != ib {
		return ia < ib
	}
	return a < b
}

// withExtra adds the names of unknown members to a field order. A sorted
// order stays sorted; otherwise they go last.
func withExtra(fields []string, extra map[string]json.RawMessage) []string {
	if len(extra) == 0 {
		return fields
	}
	out := slices.Clone(fields)
	sorted := slices.IsSorted(fields)
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	if sorted {
		slices.Sort(out)
	}
	return out
}

func addExtra(o *jsonObject, extra map[string]json.RawMessage) {
	for k, v := range extra {
		if !o.has(k) {
			o.add(k, v)
		}
	}
}

func (o *jsonObject) has(key string) bool {
	return slices.ContainsFunc(o.members, func(m member) bool { return m.key == key })
}

func documentObject(doc *domain.LocalizationDocument) *jsonObject {
	o := &jsonObject{fields: withExtra(documentFields, doc.Extra)}
	if doc.SourceLanguage != "" {
		o.add("sourceLanguage", doc.SourceLanguage)
	}
	if len(doc.AvailableLocales) > 0 {
		o.add("availableLocales", slices.Sorted(slices.Values(doc.AvailableLocales)))
	}
	strs := &jsonObject{}
	for key, e := range doc.Strings {
		strs.add(key, entryObject(e))
	}
	o.add("strings", strs)
	if doc.Version != "" {
		o.add("version", doc.Version)
	}
	addExtra(o, doc.Extra)
	return o
}

func entryObject(e *domain.StringEntry) *jsonObject {
	if e == nil {
		return &jsonObject{fields: entryFields}
	}
	o := &jsonObject{fields: withExtra(entryFields, e.Extra)}
	if e.Comment != "" {
		o.add("comment", e.Comment)
	}
	if e.ExtractionState != domain.ExtractionStateNone {
		o.add("extractionState", string(e.ExtractionState))
	}
	if len(e.Localizations) > 0 {
		locs := &jsonObject{}
		for locale, r := range e.Localizations {
			locs.add(locale, recordObject(r))
		}
		o.add("localizations", locs)
	}
	if e.DoNotTranslate {
		o.add("shouldTranslate", false)
	}
	if e.Value != nil {
		o.add("value", *e.Value)
	}
	addExtra(o, e.Extra)
	return o
}

func recordObject(r *domain.LocalizationRecord) *jsonObject {
	if r == nil {
		return &jsonObject{fields: recordFields}
	}
	o := &jsonObject{fields: withExtra(recordFields, r.Extra)}
	if r.Comment != "" {
		o.add("comment", r.Comment)
	}
	if r.StringUnit != nil {
		u := &jsonObject{fields: unitFields}
		if r.StringUnit.State != domain.ReviewStateNone {
			u.add("state", string(r.StringUnit.State))
		}
		u.add("value", r.StringUnit.Value)
		o.add("stringUnit", u)
	}
	if len(r.Variations) > 0 {
		o.add("variations", variationsObject(r))
	}
	addExtra(o, r.Extra)
	return o
}

// variationsObject lays out selectors and cases in the record's variation
// order so new files and inserted cases follow it too.
func variationsObject(r *domain.LocalizationRecord) *jsonObject {
	vars := &jsonObject{}
	caseOrder := make(map[string][]string, len(r.Variations))
	for _, ref := range r.VariationRefs() {
		if !slices.Contains(vars.fields, ref.Selector) {
			vars.fields = append(vars.fields, ref.Selector)
		}
		caseOrder[ref.Selector] = append(caseOrder[ref.Selector], ref.Case)
	}
	for sel, cases := range r.Variations {
		co := &jsonObject{fields: caseOrder[sel]}
		for c, rec := range cases {
			co.add(c, recordObject(rec))
		}
		vars.add(sel, co)
	}
	return vars
}

// toNode converts a value accepted by ApplyChange into a writable node.
func toNode(v any) (any, error) {
	switch t := v.(type) {
	case *domain.StringEntry:
		return entryObject(t), nil
	case *domain.LocalizationRecord:
		return recordObject(t), nil
	case *jsonObject, string, bool, []string, json.RawMessage:
		return t, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// encoder writes nodes with a given formatting. Member order follows the
// reference value when one is available so untouched files keep their layout.
type encoder struct {
	buf strings.Builder
	f   Formatting
}

func (e *encoder) node(n any, ref gjson.Result, prefix string) {
	switch t := n.(type) {
	case *jsonObject:
		e.object(t, ref, prefix)
	case []string:
		e.array(t, prefix)
	case string:
		e.buf.WriteString(quote(t))
	case bool:
		if t {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case json.RawMessage:
		e.raw(t, prefix)
	}
}

func (e *encoder) object(o *jsonObject, ref gjson.Result, prefix string) {
	if len(o.members) == 0 {
		if e.f.EmptyObjectBreak {
			e.buf.WriteString("{" + e.f.EOL + e.f.EOL + prefix + "}")
		} else {
			e.buf.WriteString("{}")
		}
		return
	}
	refKeys, refValues := refChildren(ref)
	inner := prefix + e.f.Indent
	e.buf.WriteString("{" + e.f.EOL)
	ordered := orderMembers(o, refKeys)
	for i, m := range ordered {
		e.buf.WriteString(inner)
		e.buf.WriteString(quote(m.key))
		e.buf.WriteString(e.f.colon())
		e.node(m.value, refValues[m.key], inner)
		if i < len(ordered)-1 {
			e.buf.WriteByte(',')
		}
		e.buf.WriteString(e.f.EOL)
	}
	e.buf.WriteString(prefix + "}")
}

func (e *encoder) array(items []string, prefix string) {
	if len(items) == 0 {
		e.buf.WriteString("[]")
		return
	}
	inner := prefix + e.f.Indent
	e.buf.WriteString("[" + e.f.EOL)
	for i, it := range items {
		e.buf.WriteString(inner + quote(it))
		if i < len(items)-1 {
			e.buf.WriteByte(',')
		}
		e.buf.WriteString(e.f.EOL)
	}
	e.buf.WriteString(prefix + "]")
}

// raw writes an arbitrary JSON value re-indented to the current style.
// Colon spacing is fixed afterwards by normalizeColons.
func (e *encoder) raw(msg json.RawMessage, prefix string) {
	var out bytes.Buffer
	if err := json.Indent(&out, msg, prefix, e.f.Indent); err != nil {
		e.buf.Write(msg)
		return
	}
	s := out.String()
	if e.f.EOL != "\n" {
		s = strings.ReplaceAll(s, "\n", e.f.EOL)
	}
	e.buf.WriteString(s)
}

// orderMembers returns the members of o with keys known to the reference in
// reference order. Every other key is merged in before the first reference
// key that sorts after it.
func orderMembers(o *jsonObject, refKeys []string) []member {
	byKey := make(map[string]member, len(o.members))
	for _, m := range o.members {
		byKey[m.key] = m
	}

	var known []string
	seen := make(map[string]struct{}, len(refKeys))
	for _, k := range refKeys {
		if _, ok := byKey[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		known = append(known, k)
	}
	var fresh []string
	for k := range byKey {
		if _, ok := seen[k]; !ok {
			fresh = append(fresh, k)
		}
	}
	slices.SortFunc(fresh, func(a, b string) int {
		switch {
		case o.less(a, b):
			return -1
		case o.less(b, a):
			return 1
		}
		return 0
	})

	out := make([]member, 0, len(byKey))
	j := 0
	for _, k := range known {
		for j < len(fresh) && o.less(fresh[j], k) {
			out = append(out, byKey[fresh[j]])
			j++
		}
		out = append(out, byKey[k])
	}
	for ; j < len(fresh); j++ {
		out = append(out, byKey[fresh[j]])
	}
	return out
}

func refChildren(ref gjson.Result) ([]string, map[string]gjson.Result) {
	if !ref.IsObject() {
		return nil, nil
	}
	var keys []string
	values := make(map[string]gjson.Result)
	ref.ForEach(func(key, value gjson.Result) bool {
		if _, dup := values[key.Str]; !dup {
			values[key.Str] = value
		}
		keys = append(keys, key.Str)
		return true
	})
	return keys, values
}

func quote(s string) string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(b.String(), "\n")
}

// Rebuild serializes the whole document in the given formatting. Members
// already present in referenceText keep their order; the trailing newline
// convention of referenceText is kept when it is not empty.
func Rebuild(doc *domain.LocalizationDocument, referenceText string, f Formatting) string {
	var ref gjson.Result
	if referenceText != "" && gjson.Valid(referenceText) {
		ref = gjson.Parse(referenceText)
	}
	e := &encoder{f: f}
	e.buf.Grow(len(referenceText) + 64)
	if doc == nil {
		doc = domain.NewDocument("")
	}
	e.object(documentObject(doc), ref, "")

	out := normalizeColons(e.buf.String(), f)
	if referenceText != "" {
		f.TrailingNewline = strings.HasSuffix(referenceText, "\n")
	}
	return f.withTrailingNewline(out)
}
