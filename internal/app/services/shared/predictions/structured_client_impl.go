package predictions

import (
	"bytes"
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/exceptions"
	"detection-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type structuredPredictionClient struct {
	Url        string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewStructuredPredictionClient(baseUrl string, httpClient *http.Client, logger *zap.Logger) contracts.StructuredPredictionClient {
	return &structuredPredictionClient{
		Url:        baseUrl + constvars.PredictionPathStructured,
		HTTPClient: httpClient,
		Log:        logger,
	}
}

func (c *structuredPredictionClient) Predict(ctx context.Context, payload *models.StructuredPayload) (models.RemoteResult, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("structuredPredictionClient.Predict called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEndpointURLKey, c.Url),
	)

	body, err := json.Marshal(payload)
	if err != nil {
		c.Log.Error("structuredPredictionClient.Predict error marshaling payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, &models.TransportError{Kind: models.EndpointKindStructured, Message: "failed to encode payload", Err: exceptions.ErrCannotMarshalJSON(err)}
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.Url, bytes.NewReader(body))
	if err != nil {
		c.Log.Error("structuredPredictionClient.Predict error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, &models.TransportError{Kind: models.EndpointKindStructured, Message: "failed to build request", Err: exceptions.ErrCreateHTTPRequest(err)}
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("structuredPredictionClient.Predict error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		return nil, &models.TransportError{Kind: models.EndpointKindStructured, Message: "request failed", Err: exceptions.ErrSendHTTPRequest(err)}
	}
	defer resp.Body.Close()

	result, err := readPredictionResponse(models.EndpointKindStructured, resp)
	if err != nil {
		c.Log.Error("structuredPredictionClient.Predict unsuccessful response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("structuredPredictionClient.Predict succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	return result, nil
}
