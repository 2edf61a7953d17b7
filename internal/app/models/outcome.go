package models

import "time"

type SubmissionPhase string

const (
	SubmissionPhaseIdle       SubmissionPhase = "idle"
	SubmissionPhaseSubmitting SubmissionPhase = "submitting"
	SubmissionPhaseSettled    SubmissionPhase = "settled"
)

// SubmissionOutcome is immutable once settled. A nil result means the call was
// skipped or its result was discarded.
type SubmissionOutcome struct {
	AttemptID        string
	StructuredResult RemoteResult
	ImageResult      RemoteResult
	VideoResult      RemoteResult
	Failure          *Failure
	SettledAt        time.Time
}

func (o *SubmissionOutcome) Succeeded() bool {
	return o.Failure == nil
}

// Result returns the result slot for kind.
func (o *SubmissionOutcome) Result(kind EndpointKind) RemoteResult {
	switch kind {
	case EndpointKindStructured:
		return o.StructuredResult
	case EndpointKindImages:
		return o.ImageResult
	case EndpointKindVideos:
		return o.VideoResult
	default:
		return nil
	}
}

// SetResult stores result in the slot for kind.
func (o *SubmissionOutcome) SetResult(kind EndpointKind, result RemoteResult) {
	switch kind {
	case EndpointKindStructured:
		o.StructuredResult = result
	case EndpointKindImages:
		o.ImageResult = result
	case EndpointKindVideos:
		o.VideoResult = result
	}
}

type Failure struct {
	Message    string
	Validation *ValidationError
	Calls      []CallFailure
}

type CallFailure struct {
	Kind       EndpointKind
	StatusCode int
	Message    string
}

type StateSnapshot struct {
	Phase     SubmissionPhase
	AttemptID string
	StartedAt time.Time
	SettledAt time.Time
	Outcome   *SubmissionOutcome
}
