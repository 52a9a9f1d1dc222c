package catalog

import (
	"strings"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

// stateTransition is the input of the review-state rule applied on edits.
type stateTransition struct {
	translatable bool
	isSource     bool
	prevValue    string
	value        string
	state        domain.ReviewState
}

// nextReviewState returns the state a locale gets after its value changes.
//
// A non-empty value for a translatable, non-source locale marks it
// translated when it had no state, was new, or had an empty value before.
// The empty-before case wins over needs_review and stale.
// Clearing a non-empty value clears the state.
func nextReviewState(t stateTransition) domain.ReviewState {
	prevEmpty := strings.TrimSpace(t.prevValue) == ""
	nextEmpty := strings.TrimSpace(t.value) == ""

	if t.translatable && !t.isSource && !nextEmpty {
		if t.state == domain.ReviewStateNone || t.state == domain.ReviewStateNew || prevEmpty {
			return domain.ReviewStateTranslated
		}
		return t.state
	}
	if !prevEmpty && nextEmpty {
		return domain.ReviewStateNone
	}
	return t.state
}
