package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "NotFound", ErrNotFound.String())
	assert.Equal(t, "ValidationError", ErrValidation.String())
	assert.Equal(t, "Conflict", ErrConflict.String())
	assert.Equal(t, "ExternalToolError", ErrExternalTool.String())
	assert.Equal(t, "Timeout", ErrTimeout.String())
	assert.Equal(t, "IOError", ErrIO.String())
	assert.Equal(t, "Unknown(99)", ErrorCode(99).String())
}

func TestOpErrorMessageIncludesPath(t *testing.T) {
	err := NewNotFound("user_data/top10.json", "pairlist")
	assert.Equal(t, "NotFound: pairlist not found (user_data/top10.json)", err.Error())

	noPath := NewConflict("service", "bot_eth")
	assert.Equal(t, `Conflict: service "bot_eth" already exists`, noPath.Error())
}

func TestToolErrorCarriesStderr(t *testing.T) {
	cause := stderrors.New("exit status 1")
	err := NewToolError(cause, "no such service: bot_xrp")
	assert.Equal(t, ErrExternalTool, err.Code)
	assert.Contains(t, err.Message, "exit status 1")
	assert.Contains(t, err.Message, "no such service: bot_xrp")
	assert.True(t, stderrors.Is(err, cause))
}

func TestPredicatesUnwrap(t *testing.T) {
	inner := NewValidation("pairlist %s has no pair_whitelist", "empty.json")
	wrapped := fmt.Errorf("generating config: %w", inner)

	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, ErrValidation, CodeOf(wrapped))
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Equal(t, ErrorCode(0), CodeOf(stderrors.New("plain")))
	assert.False(t, IsTimeout(nil))
}
