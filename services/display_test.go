package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVCOMArgStripsSign(t *testing.T) {
	assert.Equal(t, "2.51", NewDisplayService("epdraw", "-2.51", nil).VCOMArg())
	assert.Equal(t, "1.48", NewDisplayService("epdraw", "1.48", nil).VCOMArg())
	assert.Equal(t, "251", NewDisplayService("epdraw", "", nil).VCOMArg())
}
