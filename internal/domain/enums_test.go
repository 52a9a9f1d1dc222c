package domain

import "testing"

func TestReviewState_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state ReviewState
		want  bool
	}{
		{ReviewStateNone, true},
		{ReviewStateNew, true},
		{ReviewStateTranslated, true},
		{ReviewStateNeedsReview, true},
		{ReviewStateStale, true},
		{ReviewState("reviewed"), false},
		{ReviewState("TRANSLATED"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()
			if got := tt.state.IsValid(); got != tt.want {
				t.Errorf("ReviewState(%q).IsValid() = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestExtractionState_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state ExtractionState
		want  bool
	}{
		{ExtractionStateNone, true},
		{ExtractionStateManual, true},
		{ExtractionStateExtractedWithValue, true},
		{ExtractionStateMigrated, true},
		{ExtractionStateStale, true},
		{ExtractionState("extracted"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()
			if got := tt.state.IsValid(); got != tt.want {
				t.Errorf("ExtractionState(%q).IsValid() = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestSourceKind_IsValid(t *testing.T) {
	t.Parallel()

	if !SourceKindLocal.IsValid() || !SourceKindRemote.IsValid() {
		t.Fatal("declared source kinds must be valid")
	}
	if SourceKind("ftp").IsValid() {
		t.Fatal("unknown source kind must be invalid")
	}
}

func TestPublishStages_Order(t *testing.T) {
	t.Parallel()

	stages := PublishStages()
	if len(stages) != 6 {
		t.Fatalf("expected 6 stages, got %d", len(stages))
	}
	if stages[0] != PublishStageValidateToken || stages[len(stages)-1] != PublishStageOpenRequest {
		t.Errorf("unexpected stage order: %v", stages)
	}
}
