package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"course_code": map[string]any{"type": "string"},
			"count":       map[string]any{"type": "integer"},
			"verbose":     map[string]any{"type": "boolean"},
		},
		"required": []string{"course_code"},
	}
}

func TestValidateParameters_MissingRequired(t *testing.T) {
	err := ValidateParameters(map[string]any{"count": float64(3)}, courseSchema())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "course_code", ve.Field)
}

func TestValidateParameters_RequiredAsAnySlice(t *testing.T) {
	schema := courseSchema()
	schema["required"] = []any{"course_code"}

	err := ValidateParameters(map[string]any{}, schema)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "course_code", ve.Field)
}

func TestValidateParameters_TypeMismatch(t *testing.T) {
	err := ValidateParameters(map[string]any{
		"course_code": "CS101",
		"count":       "three",
	}, courseSchema())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "count", ve.Field)
}

func TestValidateParameters_JSONNumbersAcceptedAsIntegers(t *testing.T) {
	err := ValidateParameters(map[string]any{
		"course_code": "CS101",
		"count":       float64(3),
		"verbose":     true,
	}, courseSchema())
	assert.NoError(t, err)

	err = ValidateParameters(map[string]any{
		"course_code": "CS101",
		"count":       float64(3.5),
	}, courseSchema())
	assert.Error(t, err)
}

func TestValidateParameters_ExtraFieldsIgnored(t *testing.T) {
	err := ValidateParameters(map[string]any{
		"course_code": "CS101",
		"reasoning":   "the model explained itself",
	}, courseSchema())
	assert.NoError(t, err)
}
