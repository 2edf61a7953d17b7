package models

import "github.com/goccy/go-json"

type Question struct {
	ID      string           `json:"id" bson:"id" validate:"required"`
	Label   string           `json:"label" bson:"label" validate:"required"`
	Options []QuestionOption `json:"options" bson:"options" validate:"required,min=1,dive"`
}

type QuestionOption struct {
	Label string `json:"label" bson:"label" validate:"required"`
	Value string `json:"value" bson:"value" validate:"required"`
}

// Catalogs is the static reference data loaded once at startup. Suggestions
// are opaque and forwarded to clients unmodified.
type Catalogs struct {
	Questions   []Question      `validate:"required,min=1,unique=ID,dive"`
	Suggestions json.RawMessage `validate:"-"`
}

func (c *Catalogs) QuestionIDs() []string {
	ids := make([]string, 0, len(c.Questions))
	for _, question := range c.Questions {
		ids = append(ids, question.ID)
	}
	return ids
}
