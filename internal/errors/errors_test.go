package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/folio/internal/errors"
)

func TestAs_PassesThroughAppError(t *testing.T) {
	orig := errors.NewNotFoundError("card", "abc")
	wrapped := fmt.Errorf("load: %w", orig)

	got := errors.As(wrapped)
	assert.Same(t, orig, got)
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.True(t, errors.IsNotFound(wrapped))
}

func TestAs_WrapsUnknownAsInternal(t *testing.T) {
	cause := stderrors.New("disk on fire")

	got := errors.As(cause)
	assert.Equal(t, errors.ErrCodeInternal, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.ErrorIs(t, got, cause)
	assert.False(t, errors.IsNotFound(cause))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "VALIDATION_ERROR: validation failed for limit: must be between 1 and 5",
		errors.NewValidationError("limit", "must be between 1 and 5").Error())
	assert.Equal(t, "CONFLICT: username taken", errors.NewConflictError("username taken").Error())
	assert.Equal(t, http.StatusUnauthorized, errors.NewUnauthorizedError("nope").Status)
}
