package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoreSchema = `{
	"type": "object",
	"properties": {
		"score": {"type": "number", "minimum": 0, "maximum": 1},
		"reasoning": {"type": "string"}
	},
	"required": ["score"],
	"additionalProperties": false
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(scoreSchema, `{"score": 0.72, "reasoning": "partial overlap"}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_MissingRequired(t *testing.T) {
	err := ValidateJSONString(scoreSchema, `{"reasoning": "no score"}`)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateJSONString_OutOfRange(t *testing.T) {
	err := ValidateJSONString(scoreSchema, `{"score": 2.0}`)
	require.Error(t, err)

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 42}`, `{"score": 0.5}`)
	require.Error(t, err)

	var ve *ValidationError
	assert.False(t, errors.As(err, &ve), "a broken schema is not a document violation")
}

func TestValidationError_MessageListsFields(t *testing.T) {
	err := ValidateJSONString(scoreSchema, `{"score": 0.5, "extra": true}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
