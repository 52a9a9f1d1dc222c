package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// PatchEntry applies an RFC 6902 JSON Patch to the file form of one entry
// and installs the result with a targeted patch.
func (s *Session) PatchEntry(key string, patch []byte) error {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return domain.NewValidationError("patch", err.Error())
	}
	return s.mutate("patch_entry", func() (syncPlan, error) {
		cur := s.doc.Entry(key)
		if cur == nil {
			return syncPlan{}, fmt.Errorf("patch entry %q: %w", key, domain.ErrNotFound)
		}
		raw, err := json.Marshal(entryFromDomain(cur))
		if err != nil {
			return syncPlan{}, fmt.Errorf("patch entry %q: marshal: %w", key, err)
		}
		patched, err := p.Apply(raw)
		if err != nil {
			return syncPlan{}, domain.NewValidationError("patch", err.Error())
		}

		var ej entryJSON
		if err := json.Unmarshal(patched, &ej); err != nil {
			return syncPlan{}, domain.NewValidationError("patch", err.Error())
		}
		entry := ej.toDomain()
		if err := validateEntry(entry, cur); err != nil {
			return syncPlan{}, err
		}
		entry.Extra = inheritExtra(entry.Extra, cur.Extra)
		for locale, rec := range entry.Localizations {
			inheritLayout(rec, cur.Localization(locale))
		}
		s.doc.Strings[key] = entry
		return s.touchKeyLocked(key), nil
	})
}

// validateEntry checks e after a patch of prev. Members outside the known
// fields may be kept or removed but not introduced.
func validateEntry(e, prev *domain.StringEntry) error {
	var errs []domain.FieldError
	errs = validateExtra("", e.Extra, prev.Extra, errs)
	if !e.ExtractionState.IsValid() {
		errs = append(errs, domain.FieldError{
			Field:   "extractionState",
			Message: fmt.Sprintf("unknown extraction state %q", e.ExtractionState),
		})
	}
	for locale, r := range e.Localizations {
		errs = validateRecord("localizations."+locale, r, prev.Localization(locale), errs)
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateRecord(path string, r, prev *domain.LocalizationRecord, errs []domain.FieldError) []domain.FieldError {
	if r == nil {
		return errs
	}
	var prevExtra map[string]json.RawMessage
	if prev != nil {
		prevExtra = prev.Extra
	}
	errs = validateExtra(path+".", r.Extra, prevExtra, errs)
	if r.StringUnit != nil && !r.StringUnit.State.IsValid() {
		errs = append(errs, domain.FieldError{
			Field:   path + ".stringUnit.state",
			Message: fmt.Sprintf("unknown review state %q", r.StringUnit.State),
		})
	}
	for sel, cases := range r.Variations {
		for c, rec := range cases {
			var prevCase *domain.LocalizationRecord
			if prev != nil {
				prevCase = prev.Variations[sel][c]
			}
			errs = validateRecord(path+".variations."+sel+"."+c, rec, prevCase, errs)
		}
	}
	return errs
}

func validateExtra(prefix string, extra, prev map[string]json.RawMessage, errs []domain.FieldError) []domain.FieldError {
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		if _, ok := prev[k]; !ok {
			errs = append(errs, domain.FieldError{Field: prefix + k, Message: "unknown field"})
		}
	}
	return errs
}

// inheritLayout carries over from prev what the patched JSON loses: the
// case order of variations, which comes back in key order, and the original
// bytes of unknown members the patch left equal.
func inheritLayout(rec, prev *domain.LocalizationRecord) {
	if rec == nil || prev == nil {
		return
	}
	rec.Extra = inheritExtra(rec.Extra, prev.Extra)
	if len(rec.Variations) == 0 {
		return
	}
	rec.VariationOrder = append(slices.Clone(prev.VariationOrder), rec.VariationOrder...)
	rec.VariationOrder = rec.VariationRefs()
	for sel, cases := range rec.Variations {
		for c, sub := range cases {
			inheritLayout(sub, prev.Variations[sel][c])
		}
	}
}

func inheritExtra(extra, prev map[string]json.RawMessage) map[string]json.RawMessage {
	for k, v := range extra {
		if pv, ok := prev[k]; ok && equalJSON(v, pv) {
			extra[k] = pv
		}
	}
	return extra
}

func equalJSON(a, b []byte) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
