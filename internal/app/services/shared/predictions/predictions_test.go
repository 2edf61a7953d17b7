package predictions

import (
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStructuredPayload(t *testing.T) *models.StructuredPayload {
	t.Helper()
	payload, err := models.NewStructuredPayload(
		[]string{"A1", "A2"},
		map[string]string{"A1": "1", "A2": "0"},
		models.RawDemographics{AgeMons: "36", Sex: "1", Ethnicity: "2", Jaundice: "0", FamilyMemWithASD: "1"},
	)
	require.NoError(t, err)
	return payload
}

func TestStructuredPredictionClient_PostsJSONPayload(t *testing.T) {
	var gotBody map[string]int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, constvars.PredictionPathStructured, r.URL.Path)
		assert.Equal(t, constvars.MIMEApplicationJSON, r.Header.Get(constvars.HeaderContentType))
		assert.Equal(t, "req-1", r.Header.Get(constvars.HeaderXRequestID))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"result":"positive"}`))
	}))
	defer server.Close()

	client := NewStructuredPredictionClient(server.URL, server.Client(), zap.NewNop())
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")

	result, err := client.Predict(ctx, newStructuredPayload(t))

	require.NoError(t, err)
	assert.JSONEq(t, `{"result":"positive"}`, string(result))
	assert.Equal(t, map[string]int{
		"A1": 1, "A2": 0,
		"Age_Mons": 36, "Sex": 1, "Ethnicity": 2, "Jaundice": 0, "Family_mem_with_ASD": 1,
	}, gotBody)
}

func TestStructuredPredictionClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model crashed"))
	}))
	defer server.Close()

	client := NewStructuredPredictionClient(server.URL, server.Client(), zap.NewNop())
	result, err := client.Predict(context.Background(), newStructuredPayload(t))

	assert.Nil(t, result)
	var transportErr *models.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, models.EndpointKindStructured, transportErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
	assert.Contains(t, transportErr.Message, "model crashed")
}

func TestStructuredPredictionClient_InvalidJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewStructuredPredictionClient(server.URL, server.Client(), zap.NewNop())
	_, err := client.Predict(context.Background(), newStructuredPayload(t))

	var transportErr *models.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusOK, transportErr.StatusCode)
}

func TestStructuredPredictionClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewStructuredPredictionClient(url, http.DefaultClient, zap.NewNop())
	_, err := client.Predict(context.Background(), newStructuredPayload(t))

	var transportErr *models.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, 0, transportErr.StatusCode)
	assert.Error(t, transportErr.Unwrap())
}

func TestBatchPredictionClients_SendOnePartPerFile(t *testing.T) {
	tests := []struct {
		name      string
		newClient func(string, *http.Client, *zap.Logger) contracts.BatchPredictionClient
		path      string
		fieldName string
		kind      models.EndpointKind
		files     models.FileBatch
	}{
		{
			name:      "images",
			newClient: NewImageBatchPredictionClient,
			path:      constvars.PredictionPathImages,
			fieldName: constvars.FormFieldImages,
			kind:      models.EndpointKindImages,
			files: models.FileBatch{
				models.NewFileFromBytes("a.png", "image/png", []byte("png-bytes")),
				models.NewFileFromBytes("b.jpg", "image/jpeg", []byte("jpg-bytes")),
			},
		},
		{
			name:      "videos",
			newClient: NewVideoBatchPredictionClient,
			path:      constvars.PredictionPathVideos,
			fieldName: constvars.FormFieldVideos,
			kind:      models.EndpointKindVideos,
			files: models.FileBatch{
				models.NewFileFromBytes("clip.mp4", "video/mp4", []byte("mp4-bytes")),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			type receivedPart struct {
				field, filename, contentType, content string
			}
			var parts []receivedPart

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.path, r.URL.Path)
				reader, err := r.MultipartReader()
				require.NoError(t, err)
				for {
					part, err := reader.NextPart()
					if err == io.EOF {
						break
					}
					require.NoError(t, err)
					content, err := io.ReadAll(part)
					require.NoError(t, err)
					parts = append(parts, receivedPart{
						field:       part.FormName(),
						filename:    part.FileName(),
						contentType: part.Header.Get(constvars.HeaderContentType),
						content:     string(content),
					})
				}
				w.Write([]byte(`{"prediction":[0.7]}`))
			}))
			defer server.Close()

			client := tt.newClient(server.URL, server.Client(), zap.NewNop())
			result, err := client.Predict(context.Background(), tt.files)

			require.NoError(t, err)
			assert.Equal(t, tt.kind, client.Kind())
			assert.JSONEq(t, `{"prediction":[0.7]}`, string(result))
			require.Len(t, parts, len(tt.files))
			for i, file := range tt.files {
				assert.Equal(t, tt.fieldName, parts[i].field)
				assert.Equal(t, file.Name, parts[i].filename)
				assert.Equal(t, file.ContentType, parts[i].contentType)

				src, err := file.Open()
				require.NoError(t, err)
				want, err := io.ReadAll(src)
				require.NoError(t, err)
				assert.Equal(t, string(want), parts[i].content)
			}
		})
	}
}

func TestBatchPredictionClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewImageBatchPredictionClient(server.URL, server.Client(), zap.NewNop())
	_, err := client.Predict(context.Background(), models.FileBatch{
		models.NewFileFromBytes("a.png", "image/png", []byte("png-bytes")),
	})

	var transportErr *models.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, models.EndpointKindImages, transportErr.Kind)
	assert.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
}

func TestBatchPredictionClient_FileOpenFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.Copy(io.Discard, r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	broken := models.File{
		Name:        "broken.mp4",
		ContentType: "video/mp4",
		Open: func() (io.ReadCloser, error) {
			return nil, errors.New("disk gone")
		},
	}

	client := NewVideoBatchPredictionClient(server.URL, server.Client(), zap.NewNop())
	_, err := client.Predict(context.Background(), models.FileBatch{broken})

	var transportErr *models.TransportError
	assert.True(t, errors.As(err, &transportErr))
}
