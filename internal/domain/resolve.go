package domain

// ResolveValue returns the value displayed for entry in locale.
//
// Resolution order:
//   - the locale's string unit value
//   - the first string unit value found among the locale's variations
//   - for the source language, the legacy entry-level value
//   - for the source language, fallbackKey when it is not empty
//   - ""
//
// Variations are walked in the order they were read from the file (see
// LocalizationRecord.VariationRefs), descending into nested variations
// before moving to the next case.
func ResolveValue(entry *StringEntry, locale, sourceLanguage, fallbackKey string) string {
	if rec := entry.Localization(locale); rec != nil {
		if rec.StringUnit != nil {
			return rec.StringUnit.Value
		}
		if v, ok := firstVariationValue(rec); ok {
			return v
		}
	}
	if locale != sourceLanguage {
		return ""
	}
	if entry != nil && entry.Value != nil {
		return *entry.Value
	}
	return fallbackKey
}

func firstVariationValue(r *LocalizationRecord) (string, bool) {
	for _, ref := range r.VariationRefs() {
		rec := r.Variations[ref.Selector][ref.Case]
		if rec == nil {
			continue
		}
		if rec.StringUnit != nil {
			return rec.StringUnit.Value, true
		}
		if v, ok := firstVariationValue(rec); ok {
			return v, true
		}
	}
	return "", false
}
