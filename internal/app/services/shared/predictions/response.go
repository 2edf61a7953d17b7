package predictions

import (
	"detection-service/internal/app/models"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

const maxErrorBodyInMessage = 256

// readPredictionResponse returns the success body verbatim. Any non-2xx status
// or a body that is not JSON is a transport error.
func readPredictionResponse(kind models.EndpointKind, resp *http.Response) (models.RemoteResult, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.TransportError{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Message:    "failed to read response body",
			Err:        err,
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &models.TransportError{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, truncateBody(body)),
		}
	}

	if !json.Valid(body) {
		return nil, &models.TransportError{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Message:    "response body is not valid JSON",
		}
	}
	return models.RemoteResult(body), nil
}

func truncateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodyInMessage {
		return text[:maxErrorBodyInMessage] + "..."
	}
	return text
}
