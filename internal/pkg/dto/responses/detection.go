package responses

import (
	"detection-service/internal/app/models"
	"time"

	"github.com/goccy/go-json"
)

type DetectionOutcome struct {
	SessionID        string            `json:"session_id"`
	AttemptID        string            `json:"attempt_id"`
	Success          bool              `json:"success"`
	StructuredResult json.RawMessage   `json:"structured_result,omitempty"`
	ImageResult      json.RawMessage   `json:"image_result,omitempty"`
	VideoResult      json.RawMessage   `json:"video_result,omitempty"`
	Failure          *DetectionFailure `json:"failure,omitempty"`
	Suggestions      json.RawMessage   `json:"suggestions,omitempty"`
	SettledAt        time.Time         `json:"settled_at"`
}

type DetectionFailure struct {
	Message    string                  `json:"message"`
	Validation *models.ValidationError `json:"validation,omitempty"`
	Calls      []DetectionCallFailure  `json:"calls,omitempty"`
}

type DetectionCallFailure struct {
	Kind       string `json:"kind"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message"`
}

type DetectionState struct {
	SessionID string            `json:"session_id"`
	Phase     string            `json:"phase"`
	AttemptID string            `json:"attempt_id,omitempty"`
	StartedAt *time.Time        `json:"started_at,omitempty"`
	SettledAt *time.Time        `json:"settled_at,omitempty"`
	Outcome   *DetectionOutcome `json:"outcome,omitempty"`
}

func NewDetectionOutcome(sessionID string, outcome *models.SubmissionOutcome) *DetectionOutcome {
	response := &DetectionOutcome{
		SessionID:        sessionID,
		AttemptID:        outcome.AttemptID,
		Success:          outcome.Succeeded(),
		StructuredResult: outcome.Result(models.EndpointKindStructured),
		ImageResult:      outcome.Result(models.EndpointKindImages),
		VideoResult:      outcome.Result(models.EndpointKindVideos),
		SettledAt:        outcome.SettledAt,
	}

	if outcome.Failure != nil {
		response.Failure = &DetectionFailure{
			Message:    outcome.Failure.Message,
			Validation: outcome.Failure.Validation,
		}
		for _, call := range outcome.Failure.Calls {
			response.Failure.Calls = append(response.Failure.Calls, DetectionCallFailure{
				Kind:       string(call.Kind),
				StatusCode: call.StatusCode,
				Message:    call.Message,
			})
		}
	}
	return response
}

func NewDetectionState(sessionID string, snapshot models.StateSnapshot) *DetectionState {
	response := &DetectionState{
		SessionID: sessionID,
		Phase:     string(snapshot.Phase),
		AttemptID: snapshot.AttemptID,
	}
	if !snapshot.StartedAt.IsZero() {
		startedAt := snapshot.StartedAt
		response.StartedAt = &startedAt
	}
	if !snapshot.SettledAt.IsZero() {
		settledAt := snapshot.SettledAt
		response.SettledAt = &settledAt
	}
	if snapshot.Outcome != nil {
		response.Outcome = NewDetectionOutcome(sessionID, snapshot.Outcome)
	}
	return response
}
