package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Run("ClassifiedError", func(t *testing.T) {
		err := NewGatewayError(ErrKindRateLimited, "slow down")
		assert.Equal(t, ErrKindRateLimited, KindOf(err))
	})

	t.Run("WrappedError", func(t *testing.T) {
		inner := WrapGatewayError(ErrKindNetwork, "unreachable", errors.New("dial tcp"))
		outer := fmt.Errorf("fetch failed: %w", inner)
		assert.Equal(t, ErrKindNetwork, KindOf(outer))
		assert.ErrorContains(t, inner, "unreachable")
	})

	t.Run("UnclassifiedError", func(t *testing.T) {
		assert.Equal(t, ErrKindInternal, KindOf(errors.New("who knows")))
	})

	t.Run("Sentinels", func(t *testing.T) {
		assert.Equal(t, ErrKindNotFound, KindOf(ErrSessionNotFound))
		assert.Equal(t, ErrKindAmbiguousSession, KindOf(ErrAmbiguousSession))
	})
}

func TestErrorKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want int
	}{
		{ErrKindValidation, http.StatusBadRequest},
		{ErrKindRateLimited, http.StatusTooManyRequests},
		{ErrKindUpstream, http.StatusBadGateway},
		{ErrKindNetwork, http.StatusBadGateway},
		{ErrKindTimeout, http.StatusGatewayTimeout},
		{ErrKindAmbiguousSession, http.StatusConflict},
		{ErrKindNotFound, http.StatusNotFound},
		{ErrKindInternal, http.StatusInternalServerError},
		{ErrorKind("mystery"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.HTTPStatus(), string(tt.kind))
	}
}

func TestErrorKindRPCCode(t *testing.T) {
	assert.Equal(t, -32602, ErrKindValidation.RPCCode())
	assert.Equal(t, -32001, ErrKindNotFound.RPCCode())
	assert.Equal(t, -32002, ErrKindRateLimited.RPCCode())
	assert.Equal(t, -32005, ErrKindTimeout.RPCCode())
	assert.Equal(t, -32603, ErrKindInternal.RPCCode())
	assert.Equal(t, -32603, ErrorKind("mystery").RPCCode())
}

func TestGatewayErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapGatewayError(ErrKindUpstream, "request failed", cause)
	assert.ErrorIs(t, err, cause)
}
