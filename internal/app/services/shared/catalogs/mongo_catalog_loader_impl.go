package catalogs

import (
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCatalogLoader struct {
	QuestionsCollection   *mongo.Collection
	SuggestionsCollection *mongo.Collection
}

func NewMongoCatalogLoader(db *mongo.Client, dbName, questionsCollection, suggestionsCollection string) contracts.CatalogLoader {
	database := db.Database(dbName)
	return &mongoCatalogLoader{
		QuestionsCollection:   database.Collection(questionsCollection),
		SuggestionsCollection: database.Collection(suggestionsCollection),
	}
}

func (l *mongoCatalogLoader) Source() string {
	return constvars.CatalogSourceMongo
}

// LoadQuestions returns questions in insertion order.
func (l *mongoCatalogLoader) LoadQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	cursor, err := l.QuestionsCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	err = cursor.All(ctx, &questions)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return questions, nil
}

// LoadSuggestions returns every suggestion document without its _id as one
// JSON array.
func (l *mongoCatalogLoader) LoadSuggestions(ctx context.Context) (json.RawMessage, error) {
	var documents []bson.M
	cursor, err := l.SuggestionsCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	err = cursor.All(ctx, &documents)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}

	for _, document := range documents {
		delete(document, "_id")
	}
	if documents == nil {
		documents = []bson.M{}
	}

	data, err := json.Marshal(documents)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}
	return data, nil
}
