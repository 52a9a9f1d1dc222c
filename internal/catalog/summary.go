package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// summaryKeyLimit caps the keys listed in a summary body.
const summaryKeyLimit = 20

// ChangeSummary describes the difference between a session and its baseline
// in a form a publisher can use as commit and review text.
type ChangeSummary struct {
	ChangedKeys      []string
	Added            []string
	Removed          []string
	Modified         []string
	Locales          []string // locales whose values or comments changed
	AddedLanguages   []string
	RemovedLanguages []string
	Title            string
	Body             string
}

// Summary computes the change summary of the session.
func (s *Session) Summary() ChangeSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureDirtyLocked()
	sum := ChangeSummary{ChangedKeys: slices.Sorted(maps.Keys(s.dirty))}

	locales := make(map[string]struct{})
	for _, key := range sum.ChangedKeys {
		cur, orig := s.doc.Entry(key), s.baseline.Entry(key)
		switch {
		case orig == nil:
			sum.Added = append(sum.Added, key)
		case cur == nil:
			sum.Removed = append(sum.Removed, key)
		default:
			sum.Modified = append(sum.Modified, key)
			for l := range diffLocales(cur, orig, s.doc, s.baseline) {
				if recordComment(cur.Localization(l)) != recordComment(orig.Localization(l)) ||
					domain.ResolveValue(cur, l, s.doc.SourceLanguage, "") !=
						domain.ResolveValue(orig, l, s.baseline.SourceLanguage, "") {
					locales[l] = struct{}{}
				}
			}
		}
	}
	sum.Locales = slices.Sorted(maps.Keys(locales))
	sum.AddedLanguages = localeDiff(s.languages, Languages(s.baseline))
	sum.RemovedLanguages = localeDiff(Languages(s.baseline), s.languages)

	sum.Title = summaryTitle(s.fileName, sum)
	sum.Body = summaryBody(sum)
	return sum
}

func localeDiff(a, b []string) []string {
	var out []string
	for _, l := range a {
		if !slices.ContainsFunc(b, func(x string) bool { return domain.EqualLocale(x, l) }) {
			out = append(out, l)
		}
	}
	return out
}

func summaryTitle(fileName string, sum ChangeSummary) string {
	name := fileName
	if name == "" {
		name = "catalog"
	}
	switch {
	case len(sum.ChangedKeys) == 0 && len(sum.AddedLanguages) == 0 && len(sum.RemovedLanguages) == 0:
		return fmt.Sprintf("Update %s", name)
	case len(sum.Locales) == 1:
		return fmt.Sprintf("Update %s translations in %s", sum.Locales[0], name)
	}
	return fmt.Sprintf("Update translations in %s", name)
}

func summaryBody(sum ChangeSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d key(s) changed", len(sum.ChangedKeys))
	if len(sum.Added)+len(sum.Removed) > 0 {
		fmt.Fprintf(&b, " (%d added, %d removed, %d modified)", len(sum.Added), len(sum.Removed), len(sum.Modified))
	}
	b.WriteString(".\n")
	if len(sum.Locales) > 0 {
		fmt.Fprintf(&b, "Locales: %s\n", strings.Join(sum.Locales, ", "))
	}
	if len(sum.AddedLanguages) > 0 {
		fmt.Fprintf(&b, "Added languages: %s\n", strings.Join(sum.AddedLanguages, ", "))
	}
	if len(sum.RemovedLanguages) > 0 {
		fmt.Fprintf(&b, "Removed languages: %s\n", strings.Join(sum.RemovedLanguages, ", "))
	}
	if len(sum.ChangedKeys) > 0 {
		b.WriteString("\n")
		for i, k := range sum.ChangedKeys {
			if i == summaryKeyLimit {
				fmt.Fprintf(&b, "- and %d more\n", len(sum.ChangedKeys)-summaryKeyLimit)
				break
			}
			fmt.Fprintf(&b, "- %s\n", k)
		}
	}
	return b.String()
}
