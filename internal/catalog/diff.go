package catalog

import (
	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// IsEntryDirty reports whether key differs between doc and baseline.
//
// A key present in only one document is dirty. Otherwise the key comment
// is compared, then for every locale referenced by either entry or either
// document the locale comment and the resolved value are compared.
// Review states and the translatability flag do not affect the result.
func IsEntryDirty(key string, doc, baseline *domain.LocalizationDocument) bool {
	cur := doc.Entry(key)
	orig := baseline.Entry(key)
	if cur == nil && orig == nil {
		return false
	}
	if cur == nil || orig == nil {
		return true
	}
	if cur.Comment != orig.Comment {
		return true
	}
	for locale := range diffLocales(cur, orig, doc, baseline) {
		if recordComment(cur.Localization(locale)) != recordComment(orig.Localization(locale)) {
			return true
		}
		if domain.ResolveValue(cur, locale, doc.SourceLanguage, "") !=
			domain.ResolveValue(orig, locale, baseline.SourceLanguage, "") {
			return true
		}
	}
	return false
}

// DirtyKeys returns every key of either document for which IsEntryDirty holds.
func DirtyKeys(doc, baseline *domain.LocalizationDocument) map[string]struct{} {
	out := make(map[string]struct{})
	if doc != nil {
		for key := range doc.Strings {
			if IsEntryDirty(key, doc, baseline) {
				out[key] = struct{}{}
			}
		}
	}
	if baseline != nil {
		for key := range baseline.Strings {
			if doc.Entry(key) != nil {
				continue
			}
			if IsEntryDirty(key, doc, baseline) {
				out[key] = struct{}{}
			}
		}
	}
	return out
}

func diffLocales(a, b *domain.StringEntry, docA, docB *domain.LocalizationDocument) map[string]struct{} {
	set := make(map[string]struct{}, len(a.Localizations)+len(b.Localizations)+2)
	for l := range a.Localizations {
		set[l] = struct{}{}
	}
	for l := range b.Localizations {
		set[l] = struct{}{}
	}
	for _, d := range []*domain.LocalizationDocument{docA, docB} {
		if d.SourceLanguage != "" {
			set[d.SourceLanguage] = struct{}{}
		}
		for _, l := range d.AvailableLocales {
			set[l] = struct{}{}
		}
	}
	return set
}

func recordComment(r *domain.LocalizationRecord) string {
	if r == nil {
		return ""
	}
	return r.Comment
}
