package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUID(t *testing.T) {
	a := GenerateUUID()
	b := GenerateUUID()

	assert.True(t, IsUUID(a))
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestIsUUID(t *testing.T) {
	assert.False(t, IsUUID("not-a-uuid"))
	assert.False(t, IsUUID(""))
}
