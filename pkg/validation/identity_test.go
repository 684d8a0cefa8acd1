package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidNID(t *testing.T) {
	assert.True(t, ValidNID("00112345678"))
	assert.True(t, ValidNID("99999999999"))

	assert.False(t, ValidNID(""))
	assert.False(t, ValidNID("1234567890"))    // 10 digits
	assert.False(t, ValidNID("123456789012"))  // 12 digits
	assert.False(t, ValidNID("0011234567a"))   // letter
	assert.False(t, ValidNID("001-1234567"))   // separator
	assert.False(t, ValidNID(" 00112345678"))  // leading space
	assert.False(t, ValidNID("00112345678 "))  // trailing space
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("8091234567"))

	assert.False(t, ValidPhone(""))
	assert.False(t, ValidPhone("809123456"))    // 9 digits
	assert.False(t, ValidPhone("80912345678"))  // 11 digits
	assert.False(t, ValidPhone("809123456a"))
	assert.False(t, ValidPhone("809-123-4567"))
}
