package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandBytesFromStr(t *testing.T) {
	b, err := RandBytesFromStr(64, "ab")
	assert.NoError(t, err)
	assert.Len(t, b, 64)
	assert.Empty(t, strings.Trim(string(b), "ab"))
}
