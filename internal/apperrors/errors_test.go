package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{Unauthorized("Unauthorized"), http.StatusUnauthorized},
		{NotFound("Pool not found"), http.StatusNotFound},
		{Conflict("Pool is already full"), http.StatusBadRequest},
		{Forbidden("You are not a member of this pool"), http.StatusForbidden},
		{BadRequest("Missing required fields"), http.StatusBadRequest},
		{Upstream("database error", errors.New("boom")), http.StatusInternalServerError},
		{New(KindJoinFailed, "Failed to join pool"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("verify: %w", Upstream("chain read failed", cause))

	appErr, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, KindUpstreamFailure, appErr.Kind)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsKind(err, KindUpstreamFailure))
	assert.False(t, IsKind(err, KindNotFound))
}

func TestIsMatchesKindAndMessage(t *testing.T) {
	err := Conflict("Pool is already full")

	assert.ErrorIs(t, err, Conflict("Pool is already full"))
	assert.ErrorIs(t, err, &Error{Kind: KindConflict})
	assert.NotErrorIs(t, err, Conflict("You are already a member of this pool"))
}
