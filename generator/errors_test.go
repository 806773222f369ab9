package generator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOverloadMessage(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"The model is overloaded. Please try again later.", true},
		{"Status: UNAVAILABLE", true},
		{"gemini api error (503): upstream", true},
		{"The AI service is currently busy.", true},
		{"invalid argument", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsOverloadMessage(tc.msg), tc.msg)
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&GenError{Code: ErrProviderOverloaded}))
	assert.True(t, IsRetryable(&GenError{Code: ErrNetworkFailed}))
	assert.True(t, IsRetryable(&GenError{Code: ErrCompletionFailed, Retryable: true}))
	assert.False(t, IsRetryable(&GenError{Code: ErrCompletionFailed}))
	assert.False(t, IsRetryable(&GenError{Code: ErrResponseParseFailed}))
	assert.False(t, IsRetryable(errors.New("plain error")))
	assert.False(t, IsRetryable(nil))
}

func TestIsOverloadedByCodeOrMessage(t *testing.T) {
	assert.True(t, IsOverloaded(&GenError{Code: ErrProviderOverloaded, Message: "x"}))
	assert.True(t, IsOverloaded(errors.New("service busy, retry later")))
	assert.False(t, IsOverloaded(errors.New("bad request")))
	assert.False(t, IsOverloaded(nil))
}

func TestGenErrorFormattingAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapGenError(ErrNetworkFailed, "gemini request failed", cause)

	assert.Equal(t, fmt.Sprintf("[%s] gemini request failed: connection reset", ErrNetworkFailed), err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, &GenError{Code: ErrNetworkFailed}))
	assert.False(t, errors.Is(err, &GenError{Code: ErrCompletionFailed}))
}
