package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := New("SOMETHING", "something went wrong", http.StatusTeapot)
	require.Equal(t, "something went wrong", err.Error())
	require.Equal(t, http.StatusTeapot, err.StatusCode)

	wrapped := err.WithInternal(stderrors.New("boom"))
	require.Equal(t, "something went wrong: boom", wrapped.Error())
	// The original remains untouched.
	require.Nil(t, err.Internal)
}

func TestWrapKeepsInternal(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, "could not persist task")

	require.Equal(t, ErrStorage.Code, err.Code)
	require.Equal(t, http.StatusInternalServerError, err.StatusCode)
	require.True(t, stderrors.Is(err, cause))
}

func TestFromError(t *testing.T) {
	require.Nil(t, FromError(nil))

	appErr := FromError(ErrNotOwner)
	require.Equal(t, ErrNotOwner, appErr)

	// AppErrors survive wrapping with fmt.Errorf.
	appErr = FromError(fmt.Errorf("task service: %w", ErrTaskNotFound))
	require.Equal(t, ErrTaskNotFound.Code, appErr.Code)

	generic := FromError(stderrors.New("unexpected"))
	require.Equal(t, ErrInternalServer.Code, generic.Code)
	require.NotNil(t, generic.Internal)
}

func TestTaxonomyStatusCodes(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, ErrTokenRequired.StatusCode)
	require.Equal(t, http.StatusUnauthorized, ErrAuthFailed.StatusCode)
	require.Equal(t, http.StatusPreconditionFailed, ErrAccountNotActive.StatusCode)
	require.Equal(t, http.StatusNotAcceptable, ErrActivationFailed.StatusCode)
	require.Equal(t, http.StatusConflict, ErrUsernameTaken.StatusCode)
	require.Equal(t, http.StatusNotFound, ErrTaskNotFound.StatusCode)
	require.Equal(t, http.StatusForbidden, ErrNotOwner.StatusCode)
}
