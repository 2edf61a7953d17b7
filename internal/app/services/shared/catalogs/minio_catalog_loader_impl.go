package catalogs

import (
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/exceptions"
	"io"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
)

type minioCatalogLoader struct {
	MinioClient       *minio.Client
	BucketName        string
	QuestionsObject   string
	SuggestionsObject string
}

func NewMinioCatalogLoader(minioClient *minio.Client, bucketName, questionsObject, suggestionsObject string) contracts.CatalogLoader {
	return &minioCatalogLoader{
		MinioClient:       minioClient,
		BucketName:        bucketName,
		QuestionsObject:   questionsObject,
		SuggestionsObject: suggestionsObject,
	}
}

func (l *minioCatalogLoader) Source() string {
	return constvars.CatalogSourceMinio
}

func (l *minioCatalogLoader) LoadQuestions(ctx context.Context) ([]models.Question, error) {
	data, err := l.getObject(ctx, l.QuestionsObject)
	if err != nil {
		return nil, err
	}
	return decodeQuestions(data)
}

func (l *minioCatalogLoader) LoadSuggestions(ctx context.Context) (json.RawMessage, error) {
	data, err := l.getObject(ctx, l.SuggestionsObject)
	if err != nil {
		return nil, err
	}
	return decodeSuggestions(data)
}

func (l *minioCatalogLoader) getObject(ctx context.Context, objectName string) ([]byte, error) {
	object, err := l.MinioClient.GetObject(ctx, l.BucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, exceptions.ErrMinioGetObject(err, l.BucketName, objectName)
	}
	defer object.Close()

	// GetObject is lazy, a missing object only surfaces on the first read
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, exceptions.ErrMinioGetObject(err, l.BucketName, objectName)
	}
	return data, nil
}
