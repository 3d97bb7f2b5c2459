package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNumberKeepsText(t *testing.T) {
	assert.Equal(t, Number("2282.00000000000000000001"), NewNumber(" 2282.00000000000000000001 "))
	assert.Equal(t, Number("1.50"), NewNumber("1.50"))
	assert.Equal(t, Undefined, NewNumber("abc"))
}
