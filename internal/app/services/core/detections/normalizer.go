package detections

import (
	"detection-service/internal/app/models"
)

// Normalize turns raw form input into the payloads of the three endpoints. It
// fails with *models.ValidationError when an answer for a catalog question is
// missing or when any answer or demographic field is not an integer. Missing
// answers are reported before parse failures. Files are not inspected.
func Normalize(raw *models.RawSubmission, questionIDs []string) (*models.NormalizedPayload, error) {
	for _, id := range questionIDs {
		if _, ok := raw.Answers[id]; !ok {
			return nil, &models.ValidationError{Kind: models.ValidationMissingAnswer, Field: id}
		}
	}

	structured, err := models.NewStructuredPayload(questionIDs, raw.Answers, raw.Demographics)
	if err != nil {
		return nil, err
	}

	payload := &models.NormalizedPayload{Structured: structured}
	if len(raw.Images) > 0 {
		payload.ImageBatch = append(models.FileBatch(nil), raw.Images...)
	}
	if len(raw.Videos) > 0 {
		payload.VideoBatch = append(models.FileBatch(nil), raw.Videos...)
	}
	return payload, nil
}
