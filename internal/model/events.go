package model

// Stage names one step of the pipeline state machine.
type Stage string

const (
	StageClassifying Stage = "classifying"
	StageDiscovering Stage = "discovering"
	StageScraping    Stage = "scraping_evidence"
	StageResearching Stage = "researching"
	StagePlanning    Stage = "product_planning"
	StageScoring     Stage = "scoring_market"
	StageAggregating Stage = "aggregating"
	StageCompleted   Stage = "completed"
	StageFailed      Stage = "failed"
)

// TotalSteps is the number of transient stages a run passes through.
const TotalSteps = 7

// Event is one progress notification emitted per stage transition.
// Exactly one terminal event (Result or Err set) closes a stream.
type Event struct {
	Stage   Stage             `json:"stage"`
	Message string            `json:"message"`
	Step    int               `json:"step"`
	Total   int               `json:"total"`
	Result  *ValidationResult `json:"result,omitempty"`
	Err     string            `json:"error,omitempty"`
}

// Terminal reports whether this event ends the stream.
func (e Event) Terminal() bool {
	return e.Stage == StageCompleted || e.Stage == StageFailed
}
