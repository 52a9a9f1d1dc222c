package domain

// CatalogEntry is the read-side projection of one StringEntry.
// It is always re-derivable from the document.
type CatalogEntry struct {
	Key             string
	Comment         string
	Values          map[string]string
	States          map[string]ReviewState
	ExtractionState ExtractionState
	ShouldTranslate bool
}

// ProjectEntry builds the projection of entry for the given languages.
// The key text is used as the source-language fallback.
func ProjectEntry(key string, entry *StringEntry, languages []string, sourceLanguage string) CatalogEntry {
	ce := CatalogEntry{
		Key:             key,
		Values:          make(map[string]string, len(languages)),
		States:          make(map[string]ReviewState),
		ShouldTranslate: entry.Translatable(),
	}
	if entry != nil {
		ce.Comment = entry.Comment
		ce.ExtractionState = entry.ExtractionState
	}
	for _, lang := range languages {
		ce.Values[lang] = ResolveValue(entry, lang, sourceLanguage, key)
		if st := entry.Localization(lang).State(); st != ReviewStateNone {
			ce.States[lang] = st
		}
	}
	return ce
}

// Clone returns a copy of the projection with its own maps.
func (e CatalogEntry) Clone() CatalogEntry {
	out := e
	out.Values = make(map[string]string, len(e.Values))
	for k, v := range e.Values {
		out.Values[k] = v
	}
	out.States = make(map[string]ReviewState, len(e.States))
	for k, v := range e.States {
		out.States[k] = v
	}
	return out
}
