package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(cause, ErrNetwork, "LLM unreachable").
		WithContext("url", "http://llm").
		WithContext("attempt", 1)

	assert.Equal(t, "[Network] LLM unreachable | context: attempt=1, url=http://llm | cause: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsErrorType(t *testing.T) {
	err := NewError(ErrEmptyResponse, "empty")
	wrapped := errors.Join(errors.New("outer"), err)

	assert.True(t, IsErrorType(wrapped, ErrEmptyResponse))
	assert.False(t, IsErrorType(wrapped, ErrAPI))
	assert.False(t, IsErrorType(errors.New("plain"), ErrAPI))
}

func TestAdvice(t *testing.T) {
	assert.Contains(t, Advice(NewError(ErrNetwork, "x")), "network connectivity")
	assert.Contains(t, Advice(NewError(ErrConfig, "x")), "dictionary file")
	assert.Equal(t, "Please review detailed error information", Advice(errors.New("plain")))
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "EmptyResponse", ErrEmptyResponse.String())
	assert.Equal(t, "Unknown", ErrorType(99).String())
}
