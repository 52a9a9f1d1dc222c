package catalog

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// ParseResult is the outcome of parsing catalog text.
type ParseResult struct {
	Document  *domain.LocalizationDocument
	Languages []string
	Entries   []domain.CatalogEntry
}

// Parser turns catalog text into documents and sorted projections.
type Parser struct {
	collation language.Tag
}

// NewParser creates a parser that orders keys with the given collation.
func NewParser(collation language.Tag) *Parser {
	return &Parser{collation: collation}
}

var defaultCollation = language.Und

// Parse parses text with the root collation.
func Parse(text string) (*ParseResult, error) {
	return NewParser(defaultCollation).Parse(text)
}

// Parse decodes text into a document. Invalid JSON and a missing strings
// section are reported as *domain.ParseError.
func (p *Parser) Parse(text string) (*ParseResult, error) {
	doc, err := decodeDocument(text)
	if err != nil {
		return nil, err
	}
	langs := Languages(doc)
	sorter := newKeySorter(p.collation)
	keys := sorter.sorted(slices.Collect(maps.Keys(doc.Strings)))

	entries := make([]domain.CatalogEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, domain.ProjectEntry(k, doc.Strings[k], langs, doc.SourceLanguage))
	}
	return &ParseResult{Document: doc, Languages: langs, Entries: entries}, nil
}

func decodeDocument(text string) (*domain.LocalizationDocument, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	var raw catalogJSON
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, &domain.ParseError{Reason: domain.ParseReasonInvalidSyntax, Err: err}
	}
	if raw.Strings == nil {
		return nil, &domain.ParseError{Reason: domain.ParseReasonMissingStrings}
	}
	return raw.toDomain(), nil
}

// Languages returns the sorted union of declared locales, the source
// language and every locale used by an entry.
func Languages(doc *domain.LocalizationDocument) []string {
	if doc == nil {
		return nil
	}
	set := make(map[string]struct{})
	for _, l := range doc.AvailableLocales {
		set[l] = struct{}{}
	}
	if doc.SourceLanguage != "" {
		set[doc.SourceLanguage] = struct{}{}
	}
	for _, e := range doc.Strings {
		if e == nil {
			continue
		}
		for l := range e.Localizations {
			set[l] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// keySorter orders catalog keys with locale-aware, case-insensitive
// collation. Keys that collate equal fall back to byte order so the result
// is deterministic. A collator is not safe for concurrent use.
type keySorter struct {
	col *collate.Collator
}

func newKeySorter(tag language.Tag) *keySorter {
	return &keySorter{col: collate.New(tag, collate.IgnoreCase)}
}

func (s *keySorter) compare(a, b string) int {
	if c := s.col.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func (s *keySorter) sorted(keys []string) []string {
	slices.SortFunc(keys, s.compare)
	return keys
}

// insert places key into the sorted slice keys, keeping it sorted.
func (s *keySorter) insert(keys []string, key string) []string {
	i, found := slices.BinarySearchFunc(keys, key, s.compare)
	if found {
		return keys
	}
	return slices.Insert(keys, i, key)
}

// remove deletes key from the sorted slice keys.
func (s *keySorter) remove(keys []string, key string) []string {
	i, found := slices.BinarySearchFunc(keys, key, s.compare)
	if !found {
		return keys
	}
	return slices.Delete(keys, i, i+1)
}
