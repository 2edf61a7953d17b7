package predictions

import (
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/exceptions"
	"detection-service/internal/pkg/utils"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type batchPredictionClient struct {
	EndpointKind models.EndpointKind
	Url          string
	FieldName    string
	HTTPClient   *http.Client
	Log          *zap.Logger
}

func NewImageBatchPredictionClient(baseUrl string, httpClient *http.Client, logger *zap.Logger) contracts.BatchPredictionClient {
	return &batchPredictionClient{
		EndpointKind: models.EndpointKindImages,
		Url:          baseUrl + constvars.PredictionPathImages,
		FieldName:    constvars.FormFieldImages,
		HTTPClient:   httpClient,
		Log:          logger,
	}
}

func NewVideoBatchPredictionClient(baseUrl string, httpClient *http.Client, logger *zap.Logger) contracts.BatchPredictionClient {
	return &batchPredictionClient{
		EndpointKind: models.EndpointKindVideos,
		Url:          baseUrl + constvars.PredictionPathVideos,
		FieldName:    constvars.FormFieldVideos,
		HTTPClient:   httpClient,
		Log:          logger,
	}
}

func (c *batchPredictionClient) Kind() models.EndpointKind {
	return c.EndpointKind
}

// Predict streams the batch as one multipart part per file, so files are never
// held in memory as a whole.
func (c *batchPredictionClient) Predict(ctx context.Context, batch models.FileBatch) (models.RemoteResult, error) {
	requestID := utils.GetRequestID(ctx)
	c.Log.Info("batchPredictionClient.Predict called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEndpointKindKey, string(c.EndpointKind)),
		zap.String(constvars.LoggingEndpointURLKey, c.Url),
		zap.Int(constvars.LoggingFileCountKey, len(batch)),
	)

	bodyReader, bodyWriter := io.Pipe()
	writer := multipart.NewWriter(bodyWriter)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.Url, bodyReader)
	if err != nil {
		bodyReader.Close()
		c.Log.Error("batchPredictionClient.Predict error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEndpointKindKey, string(c.EndpointKind)),
			zap.Error(err),
		)
		return nil, &models.TransportError{Kind: c.EndpointKind, Message: "failed to build request", Err: exceptions.ErrCreateHTTPRequest(err)}
	}
	req.Header.Set(constvars.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	go func() {
		bodyWriter.CloseWithError(writeBatch(writer, c.FieldName, batch))
	}()

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		bodyReader.CloseWithError(err)
		c.Log.Error("batchPredictionClient.Predict error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEndpointKindKey, string(c.EndpointKind)),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		return nil, &models.TransportError{Kind: c.EndpointKind, Message: "request failed", Err: exceptions.ErrSendHTTPRequest(err)}
	}
	defer resp.Body.Close()
	// unblocks the writer when the server answered before reading every part
	defer bodyReader.Close()

	result, err := readPredictionResponse(c.EndpointKind, resp)
	if err != nil {
		c.Log.Error("batchPredictionClient.Predict unsuccessful response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEndpointKindKey, string(c.EndpointKind)),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("batchPredictionClient.Predict succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEndpointKindKey, string(c.EndpointKind)),
		zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	return result, nil
}

func writeBatch(writer *multipart.Writer, fieldName string, batch models.FileBatch) error {
	for _, file := range batch {
		if err := writeFilePart(writer, fieldName, file); err != nil {
			return err
		}
	}
	return writer.Close()
}

func writeFilePart(writer *multipart.Writer, fieldName string, file models.File) error {
	contentType := file.ContentType
	if contentType == "" {
		contentType = constvars.MIMEOctetStream
	}

	header := make(textproto.MIMEHeader)
	header.Set(constvars.HeaderContentDisposition, fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fieldName), quoteEscaper.Replace(file.Name)))
	header.Set(constvars.HeaderContentType, contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer src.Close()

	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy %s: %w", file.Name, err)
	}
	return nil
}
