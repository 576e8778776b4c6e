package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetType(t *testing.T) {
	assert.Equal(t, ErrorTypeNotFound, GetType(NotFoundf("planet %d not found", 3)))
	assert.Equal(t, ErrorTypeValidation, GetType(Validation("bad")))
	assert.Equal(t, ErrorTypeInternal, GetType(errors.New("plain")))
	assert.Equal(t, ErrorTypeMethodNotAllowed, GetType(MethodNotAllowed("TRACE")))
}

func TestGetType_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("service: %w", NotFoundf("gone"))

	assert.True(t, IsNotFound(err))
}

func TestAppError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapInternal("failed to list planets", cause)

	assert.Equal(t, "failed to list planets: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestValidationFields(t *testing.T) {
	fields := FieldErrors{}
	fields.Add("name", "This field is required.")
	fields.Add("name", "second")

	err := ValidationFields("invalid payload", fields)

	assert.Equal(t, ErrorTypeValidation, GetType(err))
	assert.Equal(t, []string{"This field is required.", "second"}, GetFields(err)["name"])
	assert.Nil(t, GetFields(errors.New("plain")))
}
