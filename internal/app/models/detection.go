package models

import (
	"bytes"
	"detection-service/internal/pkg/constvars"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

type EndpointKind string

const (
	EndpointKindStructured EndpointKind = "structured"
	EndpointKindImages     EndpointKind = "images"
	EndpointKindVideos     EndpointKind = "videos"
)

// EndpointKinds lists every kind in outcome assembly order.
var EndpointKinds = []EndpointKind{EndpointKindStructured, EndpointKindImages, EndpointKindVideos}

// RemoteResult is the decoded success body of a prediction endpoint, kept verbatim.
type RemoteResult = json.RawMessage

// RawDemographics holds the demographic form values before coercion.
type RawDemographics struct {
	AgeMons          string
	Sex              string
	Ethnicity        string
	Jaundice         string
	FamilyMemWithASD string
}

type RawSubmission struct {
	Answers      map[string]string
	Demographics RawDemographics
	Images       []File
	Videos       []File
}

type AnswerValue struct {
	QuestionID string
	Value      int
}

// StructuredPayload is the body of the structured prediction endpoint. Build it
// with NewStructuredPayload.
type StructuredPayload struct {
	Answers          []AnswerValue
	AgeMons          int
	Sex              int
	Ethnicity        int
	Jaundice         int
	FamilyMemWithASD int
}

// NewStructuredPayload coerces the answers of every catalog question and the
// demographic fields to integers. Completeness of answers must be checked by the
// caller; a missing answer here is reported as not a number.
func NewStructuredPayload(questionIDs []string, answers map[string]string, demographics RawDemographics) (*StructuredPayload, error) {
	payload := &StructuredPayload{
		Answers: make([]AnswerValue, 0, len(questionIDs)),
	}

	for _, id := range questionIDs {
		value, err := parseField(id, answers[id])
		if err != nil {
			return nil, err
		}
		payload.Answers = append(payload.Answers, AnswerValue{QuestionID: id, Value: value})
	}

	fields := []struct {
		name   string
		raw    string
		target *int
	}{
		{constvars.PayloadKeyAgeMons, demographics.AgeMons, &payload.AgeMons},
		{constvars.PayloadKeySex, demographics.Sex, &payload.Sex},
		{constvars.PayloadKeyEthnicity, demographics.Ethnicity, &payload.Ethnicity},
		{constvars.PayloadKeyJaundice, demographics.Jaundice, &payload.Jaundice},
		{constvars.PayloadKeyFamilyMemWithASD, demographics.FamilyMemWithASD, &payload.FamilyMemWithASD},
	}
	for _, field := range fields {
		value, err := parseField(field.name, field.raw)
		if err != nil {
			return nil, err
		}
		*field.target = value
	}

	return payload, nil
}

func parseField(name, raw string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Kind: ValidationNotANumber, Field: name, Value: raw}
	}
	return value, nil
}

// MarshalJSON writes a flat object with answers in catalog order followed by
// the demographic fields.
func (p *StructuredPayload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, value int) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(value))
		return nil
	}

	for _, answer := range p.Answers {
		if err := write(answer.QuestionID, answer.Value); err != nil {
			return nil, err
		}
	}
	demographics := []struct {
		key   string
		value int
	}{
		{constvars.PayloadKeyAgeMons, p.AgeMons},
		{constvars.PayloadKeySex, p.Sex},
		{constvars.PayloadKeyEthnicity, p.Ethnicity},
		{constvars.PayloadKeyJaundice, p.Jaundice},
		{constvars.PayloadKeyFamilyMemWithASD, p.FamilyMemWithASD},
	}
	for _, field := range demographics {
		if err := write(field.key, field.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NormalizedPayload is owned by a single submission attempt and never mutated.
type NormalizedPayload struct {
	Structured *StructuredPayload
	ImageBatch FileBatch
	VideoBatch FileBatch
}

type ValidationErrorKind string

const (
	ValidationMissingAnswer ValidationErrorKind = "missing_answer"
	ValidationNotANumber    ValidationErrorKind = "not_a_number"
)

type ValidationError struct {
	Kind  ValidationErrorKind `json:"kind"`
	Field string              `json:"field"`
	Value string              `json:"-"`
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ValidationMissingAnswer:
		return fmt.Sprintf("missing answer for question %s", e.Field)
	case ValidationNotANumber:
		return fmt.Sprintf("%s must be a whole number, got %q", e.Field, e.Value)
	default:
		return fmt.Sprintf("invalid value for %s", e.Field)
	}
}

type TransportError struct {
	Kind       EndpointKind
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s prediction endpoint: %s", e.Kind, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
