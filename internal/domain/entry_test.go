package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestResolveValue(t *testing.T) {
	t.Parallel()

	plural := &StringEntry{
		Localizations: map[string]*LocalizationRecord{
			"fr": {
				Variations: map[string]VariationCases{
					"plural": {
						"other": {StringUnit: &StringUnit{Value: "%d pommes"}},
						"one":   {StringUnit: &StringUnit{Value: "%d pomme"}},
					},
				},
			},
			"it": {
				Variations: map[string]VariationCases{
					"plural": {
						"one":   {StringUnit: &StringUnit{Value: "%d mela"}},
						"other": {StringUnit: &StringUnit{Value: "%d mele"}},
					},
				},
				VariationOrder: []VariationRef{
					{Selector: "plural", Case: "other"},
					{Selector: "plural", Case: "one"},
				},
			},
			"de": {
				Variations: map[string]VariationCases{
					"device": {
						"iphone": {Variations: map[string]VariationCases{
							"plural": {"other": {StringUnit: &StringUnit{Value: "Äpfel"}}},
						}},
					},
				},
			},
		},
	}

	tests := []struct {
		name     string
		entry    *StringEntry
		locale   string
		source   string
		fallback string
		want     string
	}{
		{
			name: "string unit wins",
			entry: &StringEntry{Localizations: map[string]*LocalizationRecord{
				"fr": {StringUnit: &StringUnit{Value: "Bonjour"}},
			}},
			locale: "fr", source: "en", want: "Bonjour",
		},
		{
			name: "empty string unit still wins",
			entry: &StringEntry{Value: strPtr("legacy"), Localizations: map[string]*LocalizationRecord{
				"en": {StringUnit: &StringUnit{Value: ""}},
			}},
			locale: "en", source: "en", fallback: "key", want: "",
		},
		{name: "unordered variations walk sorted cases", entry: plural, locale: "fr", source: "en", want: "%d pomme"},
		{name: "variations walk file order", entry: plural, locale: "it", source: "en", want: "%d mele"},
		{name: "nested variation", entry: plural, locale: "de", source: "en", want: "Äpfel"},
		{name: "legacy value for source", entry: &StringEntry{Value: strPtr("Legacy")}, locale: "en", source: "en", fallback: "key", want: "Legacy"},
		{name: "legacy value ignored for other locales", entry: &StringEntry{Value: strPtr("Legacy")}, locale: "fr", source: "en", fallback: "key", want: ""},
		{name: "fallback key for source", entry: &StringEntry{}, locale: "en", source: "en", fallback: "hello", want: "hello"},
		{name: "no fallback for source", entry: &StringEntry{}, locale: "en", source: "en", want: ""},
		{name: "nil entry", entry: nil, locale: "fr", source: "en", want: ""},
		{name: "nil entry source fallback", entry: nil, locale: "en", source: "en", fallback: "k", want: "k"},
		{
			name: "record without unit or variations",
			entry: &StringEntry{Localizations: map[string]*LocalizationRecord{
				"en": {Comment: "only a comment"},
			}},
			locale: "en", source: "en", fallback: "key", want: "key",
		},
		{
			name: "nil record in map",
			entry: &StringEntry{Localizations: map[string]*LocalizationRecord{"fr": nil}},
			locale: "fr", source: "en", want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ResolveValue(tt.entry, tt.locale, tt.source, tt.fallback)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectEntry(t *testing.T) {
	t.Parallel()

	entry := &StringEntry{
		Comment:         "Greeting",
		ExtractionState: ExtractionStateManual,
		Localizations: map[string]*LocalizationRecord{
			"en": {StringUnit: &StringUnit{State: ReviewStateTranslated, Value: "Hello"}},
			"fr": {StringUnit: &StringUnit{State: ReviewStateNeedsReview, Value: "Salut"}},
		},
	}

	got := ProjectEntry("hello", entry, []string{"de", "en", "fr"}, "en")

	assert.Equal(t, "hello", got.Key)
	assert.Equal(t, "Greeting", got.Comment)
	assert.Equal(t, ExtractionStateManual, got.ExtractionState)
	assert.True(t, got.ShouldTranslate)
	assert.Equal(t, map[string]string{"de": "", "en": "Hello", "fr": "Salut"}, got.Values)
	assert.Equal(t, map[string]ReviewState{"en": ReviewStateTranslated, "fr": ReviewStateNeedsReview}, got.States)
}

func TestProjectEntry_DoNotTranslate(t *testing.T) {
	t.Parallel()

	got := ProjectEntry("id", &StringEntry{DoNotTranslate: true}, []string{"en"}, "en")

	assert.False(t, got.ShouldTranslate)
	assert.Equal(t, "id", got.Values["en"])
}

func TestCatalogEntry_Clone(t *testing.T) {
	t.Parallel()

	orig := CatalogEntry{Key: "k", Values: map[string]string{"en": "a"}, States: map[string]ReviewState{}}
	cp := orig.Clone()
	cp.Values["en"] = "b"

	assert.Equal(t, "a", orig.Values["en"])
}
