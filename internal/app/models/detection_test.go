package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredPayload_MarshalJSONKeepsCatalogOrder(t *testing.T) {
	payload, err := NewStructuredPayload(
		[]string{"A10", "A2", "A1"},
		map[string]string{"A1": "1", "A2": "0", "A10": "1"},
		RawDemographics{AgeMons: "24", Sex: "0", Ethnicity: "3", Jaundice: "1", FamilyMemWithASD: "0"},
	)
	require.NoError(t, err)

	body, err := payload.MarshalJSON()

	require.NoError(t, err)
	assert.Equal(t,
		`{"A10":1,"A2":0,"A1":1,"Age_Mons":24,"Sex":0,"Ethnicity":3,"Jaundice":1,"Family_mem_with_ASD":0}`,
		string(body),
	)
}

func TestNewStructuredPayload_ReportsFirstBadField(t *testing.T) {
	_, err := NewStructuredPayload(
		[]string{"A1"},
		map[string]string{"A1": "1"},
		RawDemographics{AgeMons: "24", Sex: "male", Ethnicity: "x", Jaundice: "1", FamilyMemWithASD: "0"},
	)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, ValidationNotANumber, validationErr.Kind)
	assert.Equal(t, "Sex", validationErr.Field)
	assert.Equal(t, `Sex must be a whole number, got "male"`, validationErr.Error())
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &TransportError{Kind: EndpointKindVideos, Message: "request failed", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "videos prediction endpoint: request failed", err.Error())
}

func TestSubmissionOutcome_Result(t *testing.T) {
	outcome := &SubmissionOutcome{
		StructuredResult: RemoteResult(`1`),
		ImageResult:      RemoteResult(`2`),
	}

	assert.Equal(t, RemoteResult(`1`), outcome.Result(EndpointKindStructured))
	assert.Equal(t, RemoteResult(`2`), outcome.Result(EndpointKindImages))
	assert.Nil(t, outcome.Result(EndpointKindVideos))
	assert.True(t, outcome.Succeeded())

	outcome.SetResult(EndpointKindVideos, RemoteResult(`3`))
	outcome.SetResult(EndpointKindStructured, nil)
	assert.Equal(t, RemoteResult(`3`), outcome.VideoResult)
	assert.Nil(t, outcome.StructuredResult)
}
