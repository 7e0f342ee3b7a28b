package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 42.75, RoundTo(42.7489, 2))
	assert.Equal(t, 43.0, RoundTo(42.96, 0))
	assert.Equal(t, -12.34, RoundTo(-12.3449, 2))
}
