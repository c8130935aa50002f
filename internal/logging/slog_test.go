package logging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeEmail(t *testing.T) {
	hash := AnonymizeEmail("dev@example.com")

	assert.True(t, strings.HasPrefix(hash, "user:"))
	assert.NotContains(t, hash, "dev@example.com")
	// Deterministic, so log lines can be correlated.
	assert.Equal(t, hash, AnonymizeEmail("dev@example.com"))
	assert.NotEqual(t, hash, AnonymizeEmail("other@example.com"))
}

func TestAnonymizeEmailEmpty(t *testing.T) {
	assert.Empty(t, AnonymizeEmail(""))
}

func TestErrNilSafe(t *testing.T) {
	attr := Err(nil)
	assert.Empty(t, attr.Key)

	attr = Err(assert.AnError)
	assert.Equal(t, KeyError, attr.Key)
}

func TestAttrHelpers(t *testing.T) {
	attr := Tool("calendar_list_events")
	assert.Equal(t, KeyTool, attr.Key)
	assert.Equal(t, "calendar_list_events", attr.Value.String())

	attr = Status("success")
	assert.Equal(t, KeyStatus, attr.Key)
	assert.Equal(t, "success", attr.Value.String())

	attr = UserHash("dev@example.com")
	assert.Equal(t, KeyUserHash, attr.Key)
	assert.Equal(t, AnonymizeEmail("dev@example.com"), attr.Value.String())
}
