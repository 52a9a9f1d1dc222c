package domain

// ReviewState is the per-locale workflow status of a translation.
// The empty value means no state is recorded.
type ReviewState string

const (
	ReviewStateNone        ReviewState = ""
	ReviewStateNew         ReviewState = "new"
	ReviewStateTranslated  ReviewState = "translated"
	ReviewStateNeedsReview ReviewState = "needs_review"
	ReviewStateStale       ReviewState = "stale"
)

func (s ReviewState) String() string { return string(s) }

func (s ReviewState) IsValid() bool {
	switch s {
	case ReviewStateNone, ReviewStateNew, ReviewStateTranslated, ReviewStateNeedsReview, ReviewStateStale:
		return true
	}
	return false
}

// ExtractionState records the provenance of a key.
type ExtractionState string

const (
	ExtractionStateNone               ExtractionState = ""
	ExtractionStateManual             ExtractionState = "manual"
	ExtractionStateExtractedWithValue ExtractionState = "extracted_with_value"
	ExtractionStateMigrated           ExtractionState = "migrated"
	ExtractionStateStale              ExtractionState = "stale"
)

func (s ExtractionState) String() string { return string(s) }

func (s ExtractionState) IsValid() bool {
	switch s {
	case ExtractionStateNone, ExtractionStateManual, ExtractionStateExtractedWithValue,
		ExtractionStateMigrated, ExtractionStateStale:
		return true
	}
	return false
}

// SourceKind identifies where a catalog was loaded from.
type SourceKind string

const (
	SourceKindLocal  SourceKind = "local"
	SourceKindRemote SourceKind = "remote"
)

func (k SourceKind) String() string { return string(k) }

func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindLocal, SourceKindRemote:
		return true
	}
	return false
}

// PublishStage names the progress steps reported by a publish collaborator.
type PublishStage string

const (
	PublishStageValidateToken PublishStage = "validate_token"
	PublishStageCreateFork    PublishStage = "create_fork"
	PublishStageWaitFork      PublishStage = "wait_fork"
	PublishStageCreateBranch  PublishStage = "create_branch"
	PublishStageCommit        PublishStage = "commit"
	PublishStageOpenRequest   PublishStage = "open_pull_request"
)

func (s PublishStage) String() string { return string(s) }

// PublishStages lists the stages in the order a publisher runs them.
func PublishStages() []PublishStage {
	return []PublishStage{
		PublishStageValidateToken,
		PublishStageCreateFork,
		PublishStageWaitFork,
		PublishStageCreateBranch,
		PublishStageCommit,
		PublishStageOpenRequest,
	}
}
