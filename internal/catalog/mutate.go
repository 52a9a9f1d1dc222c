package catalog

import (
	"fmt"
	"slices"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// syncPlan says what a mutation needs serialized.
type syncPlan struct {
	keys      []string
	full      bool
	recompute bool
}

func (p syncPlan) empty() bool { return len(p.keys) == 0 && !p.full }

// mutate runs fn under the session lock and then schedules the sync work
// fn planned. Scheduling happens after the lock is released so an inline or
// stopped queue can run the tasks directly.
func (s *Session) mutate(op string, fn func() (syncPlan, error)) error {
	s.mu.Lock()
	plan, err := fn()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if plan.empty() {
		return nil
	}
	if s.metrics != nil {
		s.metrics.MutationApplied(op)
	}
	s.dispatch(plan)
	return nil
}

func (s *Session) dispatch(plan syncPlan) {
	if plan.recompute {
		s.submit(TaskRecomputeDirty, "", LaneIdle, s.recomputeDirty)
	}
	if plan.full {
		s.submit(TaskSerializeFull, "", LaneIdle, s.syncFull)
	} else {
		for _, key := range plan.keys {
			s.submit(TaskSerializeKey, key, LaneDebounce, func() { s.syncKey(key) })
		}
	}
	if s.persist != nil {
		s.submit(TaskPersist, "", LaneDebounce, s.persistNow)
	}
}

// touchKeyLocked re-derives the projection and dirty state of one key and
// marks it for a targeted patch.
func (s *Session) touchKeyLocked(key string) syncPlan {
	s.reprojectKeyLocked(key)
	s.updateDirtyLocked(key)
	if !s.pendingFull {
		s.pendingKeys[key] = struct{}{}
	}
	return syncPlan{keys: []string{key}}
}

// touchAllLocked re-derives everything after a whole-document mutation and
// marks the text for a full rebuild. The dirty set is recomputed lazily.
func (s *Session) touchAllLocked() syncPlan {
	s.reprojectLocked()
	s.dirtyStale = true
	s.pendingFull = true
	clear(s.pendingKeys)
	return syncPlan{full: true, recompute: true}
}

// entryForWrite returns a copy of the entry stored under key.
func (s *Session) entryForWrite(op, key string) (*domain.StringEntry, error) {
	cur := s.doc.Entry(key)
	if cur == nil {
		return nil, fmt.Errorf("%s %q: %w", op, key, domain.ErrNotFound)
	}
	return cur.Clone(), nil
}

// putRecord stores rec under locale, dropping it when it carries nothing.
func putRecord(entry *domain.StringEntry, locale string, rec *domain.LocalizationRecord) {
	if rec.IsEmpty() {
		delete(entry.Localizations, locale)
		if len(entry.Localizations) == 0 {
			entry.Localizations = nil
		}
		return
	}
	if entry.Localizations == nil {
		entry.Localizations = make(map[string]*domain.LocalizationRecord)
	}
	entry.Localizations[locale] = rec
}

// localeLocked maps locale onto the key the catalog already uses for it.
// Locales the catalog does not have are normalized.
func (s *Session) localeLocked(entry *domain.StringEntry, locale string) string {
	if _, ok := entry.Localizations[locale]; ok {
		return locale
	}
	for _, l := range s.languages {
		if sameLocale(l, locale) {
			return l
		}
	}
	return domain.NormalizeLocale(locale)
}

func sameLocale(a, b string) bool {
	return domain.EqualLocale(domain.NormalizeLocale(a), domain.NormalizeLocale(b))
}

func requireLocale(locale string) error {
	if domain.NormalizeLocale(locale) == "" {
		return domain.NewValidationError("locale", "required")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Single-entry operators
// ---------------------------------------------------------------------------

// SetValue writes the value of key in locale and applies the review-state
// transition for the edit.
func (s *Session) SetValue(key, locale, value string) error {
	if err := requireLocale(locale); err != nil {
		return err
	}
	return s.mutate("set_value", func() (syncPlan, error) {
		entry, err := s.entryForWrite("set value", key)
		if err != nil {
			return syncPlan{}, err
		}
		locale := s.localeLocked(entry, locale)
		rec := entry.Localization(locale).Clone()
		if rec == nil {
			rec = &domain.LocalizationRecord{}
		}
		var prev string
		if rec.StringUnit != nil {
			prev = rec.StringUnit.Value
		}
		prevState := rec.State()
		state := nextReviewState(stateTransition{
			translatable: entry.Translatable(),
			isSource:     domain.EqualLocale(locale, s.doc.SourceLanguage),
			prevValue:    prev,
			value:        value,
			state:        prevState,
		})
		if rec.StringUnit != nil && prev == value && prevState == state {
			return syncPlan{}, nil
		}
		if rec.StringUnit == nil && value == "" && state == domain.ReviewStateNone {
			return syncPlan{}, nil
		}

		rec.StringUnit = &domain.StringUnit{State: state, Value: value}
		putRecord(entry, locale, rec)
		s.doc.Strings[key] = entry
		return s.touchKeyLocked(key), nil
	})
}

// SetComment sets the key-level comment. An empty comment removes it.
func (s *Session) SetComment(key, comment string) error {
	return s.mutate("set_comment", func() (syncPlan, error) {
		entry, err := s.entryForWrite("set comment", key)
		if err != nil {
			return syncPlan{}, err
		}
		if entry.Comment == comment {
			return syncPlan{}, nil
		}
		entry.Comment = comment
		s.doc.Strings[key] = entry
		return s.touchKeyLocked(key), nil
	})
}

// SetState sets or clears (with ReviewStateNone) the review state of key in locale.
func (s *Session) SetState(key, locale string, state domain.ReviewState) error {
	if err := requireLocale(locale); err != nil {
		return err
	}
	if !state.IsValid() {
		return domain.NewValidationError("state", fmt.Sprintf("unknown review state %q", state))
	}
	return s.mutate("set_state", func() (syncPlan, error) {
		entry, err := s.entryForWrite("set state", key)
		if err != nil {
			return syncPlan{}, err
		}
		locale := s.localeLocked(entry, locale)
		rec := entry.Localization(locale).Clone()
		if rec == nil {
			rec = &domain.LocalizationRecord{}
		}

		switch {
		case rec.StringUnit != nil:
			if rec.StringUnit.State == state {
				return syncPlan{}, nil
			}
			rec.StringUnit.State = state
			if state == domain.ReviewStateNone && rec.StringUnit.Value == "" {
				rec.StringUnit = nil
			}
		case len(rec.Variations) > 0:
			if !setVariationStates(rec.Variations, state) {
				return syncPlan{}, nil
			}
		case state == domain.ReviewStateNone:
			return syncPlan{}, nil
		default:
			// Keep the displayed value when a unit has to be created.
			value := domain.ResolveValue(entry, locale, s.doc.SourceLanguage, key)
			rec.StringUnit = &domain.StringUnit{State: state, Value: value}
		}
		putRecord(entry, locale, rec)
		s.doc.Strings[key] = entry
		return s.touchKeyLocked(key), nil
	})
}

// setVariationStates applies state to every string unit below variations.
func setVariationStates(variations map[string]domain.VariationCases, state domain.ReviewState) bool {
	changed := false
	for _, cases := range variations {
		for _, rec := range cases {
			if rec == nil {
				continue
			}
			if rec.StringUnit != nil && rec.StringUnit.State != state {
				rec.StringUnit.State = state
				changed = true
			}
			if setVariationStates(rec.Variations, state) {
				changed = true
			}
		}
	}
	return changed
}

// SetShouldTranslate sets the translatability flag of key.
func (s *Session) SetShouldTranslate(key string, flag bool) error {
	return s.mutate("set_should_translate", func() (syncPlan, error) {
		entry, err := s.entryForWrite("set should translate", key)
		if err != nil {
			return syncPlan{}, err
		}
		if entry.DoNotTranslate == !flag {
			return syncPlan{}, nil
		}
		entry.DoNotTranslate = !flag
		s.doc.Strings[key] = entry
		return s.touchKeyLocked(key), nil
	})
}

// RestoreField resets the record of key in locale to the baseline, or
// removes it when the baseline has none.
func (s *Session) RestoreField(key, locale string) error {
	if err := requireLocale(locale); err != nil {
		return err
	}
	return s.mutate("restore_field", func() (syncPlan, error) {
		entry, err := s.entryForWrite("restore field", key)
		if err != nil {
			return syncPlan{}, err
		}
		locale := s.localeLocked(entry, locale)
		orig := s.baseline.Entry(key).Localization(locale)
		if orig == nil {
			putRecord(entry, locale, &domain.LocalizationRecord{})
		} else {
			if entry.Localizations == nil {
				entry.Localizations = make(map[string]*domain.LocalizationRecord)
			}
			entry.Localizations[locale] = orig.Clone()
		}
		s.doc.Strings[key] = entry
		return s.touchKeyLocked(key), nil
	})
}

// RestoreKey resets key to the baseline, deleting it when the baseline
// does not have it.
func (s *Session) RestoreKey(key string) error {
	return s.mutate("restore_key", func() (syncPlan, error) {
		cur, orig := s.doc.Entry(key), s.baseline.Entry(key)
		if cur == nil && orig == nil {
			return syncPlan{}, fmt.Errorf("restore key %q: %w", key, domain.ErrNotFound)
		}
		if orig == nil {
			delete(s.doc.Strings, key)
		} else {
			s.doc.Strings[key] = orig.Clone()
		}
		return s.touchKeyLocked(key), nil
	})
}

// ---------------------------------------------------------------------------
// Whole-document operators
// ---------------------------------------------------------------------------

// AddLanguage adds a locale to the catalog. The tag is normalized first; a
// locale already present (ignoring case) leaves the session untouched and
// false is returned.
func (s *Session) AddLanguage(locale string) (bool, error) {
	norm := domain.NormalizeLocale(locale)
	if norm == "" {
		return false, domain.NewValidationError("locale", "required")
	}
	added := false
	err := s.mutate("add_language", func() (syncPlan, error) {
		if s.hasLanguageLocked(norm) {
			return syncPlan{}, nil
		}
		s.doc.AvailableLocales = append(s.doc.AvailableLocales, norm)
		slices.Sort(s.doc.AvailableLocales)
		s.editProjectLocked(norm, true)
		added = true
		return s.touchAllLocked(), nil
	})
	return added, err
}

// RemoveLanguage removes a locale from every entry and from the declared
// locales. The source language and unknown locales are left alone and
// false is returned.
func (s *Session) RemoveLanguage(locale string) (bool, error) {
	norm := domain.NormalizeLocale(locale)
	if norm == "" {
		return false, domain.NewValidationError("locale", "required")
	}
	removed := false
	err := s.mutate("remove_language", func() (syncPlan, error) {
		if domain.EqualLocale(norm, s.doc.SourceLanguage) || !s.hasLanguageLocked(norm) {
			return syncPlan{}, nil
		}
		for key, e := range s.doc.Strings {
			if !hasLocalization(e, norm) {
				continue
			}
			entry := e.Clone()
			for l := range entry.Localizations {
				if domain.EqualLocale(l, norm) {
					delete(entry.Localizations, l)
				}
			}
			if len(entry.Localizations) == 0 {
				entry.Localizations = nil
			}
			s.doc.Strings[key] = entry
		}
		s.doc.AvailableLocales = slices.DeleteFunc(s.doc.AvailableLocales, func(l string) bool {
			return domain.EqualLocale(l, norm)
		})
		if len(s.doc.AvailableLocales) == 0 {
			s.doc.AvailableLocales = nil
		}
		s.editProjectLocked(norm, false)
		removed = true
		return s.touchAllLocked(), nil
	})
	return removed, err
}

// RestoreAll replaces the document with a copy of the baseline.
func (s *Session) RestoreAll() error {
	return s.mutate("restore_all", func() (syncPlan, error) {
		s.doc = s.baseline.Clone()
		plan := s.touchAllLocked()
		clear(s.dirty)
		s.dirtyStale = false
		plan.recompute = false
		if s.tasks != nil {
			s.tasks.CancelKind(s.id, TaskRecomputeDirty)
		}
		return plan, nil
	})
}

func (s *Session) hasLanguageLocked(locale string) bool {
	for _, l := range s.languages {
		if domain.EqualLocale(l, locale) {
			return true
		}
	}
	return s.doc.HasAvailableLocale(locale)
}

func hasLocalization(e *domain.StringEntry, locale string) bool {
	if e == nil {
		return false
	}
	for l := range e.Localizations {
		if domain.EqualLocale(l, locale) {
			return true
		}
	}
	return false
}
