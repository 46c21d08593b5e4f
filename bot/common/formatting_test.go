package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "1.00", FormatBalance(100))
	assert.Equal(t, "1.10", FormatBalance(110))
	assert.Equal(t, "0.10", FormatBalance(10))
	assert.Equal(t, "0.00", FormatBalance(0))
	assert.Equal(t, "-0.50", FormatBalance(-50))
}
