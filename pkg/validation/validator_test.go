package validation

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sharek-engine/pkg/util"
)

type signup struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Status string `json:"status" validate:"omitempty,oneof=scheduled completed"`
}

func TestValidator_Struct(t *testing.T) {
	t.Parallel()
	v := New()

	require.NoError(t, v.Struct(signup{Name: "Aisha", Email: "aisha@example.qa"}))

	err := v.Struct(signup{Email: "not-an-email", Status: "lost"})
	require.Error(t, err)

	var de *util.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, map[string]any{
		"name":   "is required",
		"email":  "must be a valid email address",
		"status": "must be one of scheduled completed",
	}, de.Details)
}
