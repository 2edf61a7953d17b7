package controllers

import (
	"bytes"
	"context"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/dto/responses"
	"detection-service/internal/pkg/exceptions"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockDetectionUsecase struct {
	mock.Mock
}

func (m *MockDetectionUsecase) SubmitDetection(ctx context.Context, sessionID string, raw *models.RawSubmission) (*responses.DetectionOutcome, error) {
	args := m.Called(ctx, sessionID, raw)
	if v := args.Get(0); v != nil {
		return v.(*responses.DetectionOutcome), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDetectionUsecase) FindDetectionState(ctx context.Context, sessionID string) (*responses.DetectionState, error) {
	args := m.Called(ctx, sessionID)
	if v := args.Get(0); v != nil {
		return v.(*responses.DetectionState), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDetectionUsecase) FindQuestions(ctx context.Context) ([]models.Question, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDetectionUsecase) FindSuggestions(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type formFile struct {
	field, name, content string
}

func newMultipartRequest(t *testing.T, fields map[string]string, files []formFile) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.name)
		require.NoError(t, err)
		_, err = io.WriteString(part, file.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/detections", body)
	req.Header.Set(constvars.HeaderContentType, writer.FormDataContentType())
	return withIDs(req)
}

func withIDs(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
	ctx = context.WithValue(ctx, constvars.CONTEXT_SESSION_ID_KEY, "session-1")
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestDetectionController_SubmitDetection(t *testing.T) {
	fields := map[string]string{
		"questions.A1":        "1",
		"questions.A2":        "0",
		"age_mons":            "36",
		"sex":                 "1",
		"ethnicity":           "2",
		"jaundice":            "0",
		"family_mem_with_asd": "1",
		"unrelated":           "x",
	}
	files := []formFile{
		{field: "images", name: "face.PNG", content: "img"},
		{field: "videos", name: "clip.mp4", content: "vid"},
	}

	usecase := new(MockDetectionUsecase)
	usecase.On("SubmitDetection", mock.Anything, "session-1", mock.MatchedBy(func(raw *models.RawSubmission) bool {
		return assert.ObjectsAreEqual(map[string]string{"A1": "1", "A2": "0"}, raw.Answers) &&
			raw.Demographics == models.RawDemographics{AgeMons: "36", Sex: "1", Ethnicity: "2", Jaundice: "0", FamilyMemWithASD: "1"} &&
			len(raw.Images) == 1 && raw.Images[0].Name == "face.PNG" &&
			len(raw.Videos) == 1 && raw.Videos[0].Name == "clip.mp4"
	})).Return(&responses.DetectionOutcome{
		SessionID:        "session-1",
		AttemptID:        "attempt-1",
		Success:          true,
		StructuredResult: json.RawMessage(`{"prediction":1}`),
		SettledAt:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil)

	ctrl := NewDetectionController(zap.NewNop(), usecase)
	rr := httptest.NewRecorder()
	ctrl.SubmitDetection(rr, newMultipartRequest(t, fields, files))

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, constvars.DetectionSucceededMessage, env.Message)
	assert.Contains(t, string(env.Data), `"structured_result":{"prediction":1}`)
	usecase.AssertExpectations(t)
}

func TestDetectionController_SubmitDetectionCallFailure(t *testing.T) {
	usecase := new(MockDetectionUsecase)
	usecase.On("SubmitDetection", mock.Anything, "session-1", mock.Anything).Return(&responses.DetectionOutcome{
		AttemptID: "attempt-1",
		Success:   false,
		Failure: &responses.DetectionFailure{
			Message: constvars.DetectionGenericFailureMsg,
			Calls:   []responses.DetectionCallFailure{{Kind: "images", StatusCode: 502, Message: "bad gateway"}},
		},
	}, nil)

	ctrl := NewDetectionController(zap.NewNop(), usecase)
	rr := httptest.NewRecorder()
	ctrl.SubmitDetection(rr, newMultipartRequest(t, map[string]string{"questions.A1": "1"}, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
	assert.Equal(t, constvars.DetectionFailedMessage, env.Message)
	assert.Contains(t, string(env.Data), `"status_code":502`)
}

func TestDetectionController_SubmitDetectionRejectsFiles(t *testing.T) {
	tests := []struct {
		name string
		file formFile
	}{
		{name: "image extension", file: formFile{field: "images", name: "face.gif", content: "x"}},
		{name: "video extension", file: formFile{field: "videos", name: "clip.mov", content: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usecase := new(MockDetectionUsecase)
			ctrl := NewDetectionController(zap.NewNop(), usecase)
			rr := httptest.NewRecorder()

			ctrl.SubmitDetection(rr, newMultipartRequest(t, nil, []formFile{tt.file}))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			usecase.AssertNotCalled(t, "SubmitDetection", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDetectionController_SubmitDetectionErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "validation", err: exceptions.ErrDetectionValidation(&models.ValidationError{Kind: models.ValidationMissingAnswer, Field: "A3"}), wantCode: http.StatusBadRequest},
		{name: "in progress", err: exceptions.ErrDetectionInProgress(errors.New("busy"), "session-1"), wantCode: http.StatusConflict},
		{name: "catalog unavailable", err: exceptions.ErrCatalogUnavailable(errors.New("no catalog")), wantCode: http.StatusServiceUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usecase := new(MockDetectionUsecase)
			usecase.On("SubmitDetection", mock.Anything, "session-1", mock.Anything).Return(nil, tt.err)

			ctrl := NewDetectionController(zap.NewNop(), usecase)
			rr := httptest.NewRecorder()
			ctrl.SubmitDetection(rr, newMultipartRequest(t, map[string]string{"questions.A1": "1"}, nil))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.False(t, decodeEnvelope(t, rr).Success)
		})
	}
}

func TestDetectionController_SubmitDetectionNotMultipart(t *testing.T) {
	usecase := new(MockDetectionUsecase)
	ctrl := NewDetectionController(zap.NewNop(), usecase)

	req := withIDs(httptest.NewRequest(http.MethodPost, "/api/v1/detections", bytes.NewBufferString("{}")))
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	rr := httptest.NewRecorder()

	ctrl.SubmitDetection(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	usecase.AssertNotCalled(t, "SubmitDetection", mock.Anything, mock.Anything, mock.Anything)
}

func TestDetectionController_FindDetectionState(t *testing.T) {
	usecase := new(MockDetectionUsecase)
	usecase.On("FindDetectionState", mock.Anything, "session-1").Return(&responses.DetectionState{
		SessionID: "session-1",
		Phase:     string(models.SubmissionPhaseIdle),
	}, nil)

	ctrl := NewDetectionController(zap.NewNop(), usecase)
	rr := httptest.NewRecorder()
	ctrl.FindDetectionState(rr, withIDs(httptest.NewRequest(http.MethodGet, "/api/v1/detections/state", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(decodeEnvelope(t, rr).Data), `"phase":"idle"`)
}

func TestDetectionController_MissingRequestID(t *testing.T) {
	ctrl := NewDetectionController(zap.NewNop(), new(MockDetectionUsecase))
	rr := httptest.NewRecorder()

	ctrl.FindDetectionState(rr, httptest.NewRequest(http.MethodGet, "/api/v1/detections/state", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCatalogController(t *testing.T) {
	t.Run("questions", func(t *testing.T) {
		usecase := new(MockDetectionUsecase)
		usecase.On("FindQuestions", mock.Anything).Return([]models.Question{
			{ID: "A1", Label: "Does your child look at you?", Options: []models.QuestionOption{{Label: "Yes", Value: "1"}}},
		}, nil)

		ctrl := NewCatalogController(zap.NewNop(), usecase)
		rr := httptest.NewRecorder()
		ctrl.FindQuestions(rr, withIDs(httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, string(decodeEnvelope(t, rr).Data), `"id":"A1"`)
	})

	t.Run("suggestions passthrough", func(t *testing.T) {
		usecase := new(MockDetectionUsecase)
		usecase.On("FindSuggestions", mock.Anything).Return(json.RawMessage(`[{"condition":"high"}]`), nil)

		ctrl := NewCatalogController(zap.NewNop(), usecase)
		rr := httptest.NewRecorder()
		ctrl.FindSuggestions(rr, withIDs(httptest.NewRequest(http.MethodGet, "/api/v1/suggestions", nil)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[{"condition":"high"}]`, string(decodeEnvelope(t, rr).Data))
	})

	t.Run("catalog unavailable", func(t *testing.T) {
		usecase := new(MockDetectionUsecase)
		usecase.On("FindQuestions", mock.Anything).Return(nil, exceptions.ErrCatalogUnavailable(errors.New("load failed")))

		ctrl := NewCatalogController(zap.NewNop(), usecase)
		rr := httptest.NewRecorder()
		ctrl.FindQuestions(rr, withIDs(httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil)))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
