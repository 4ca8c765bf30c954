package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPesos(t *testing.T) {
	assert.Equal(t, "$ 0", FormatPesos(0))
	assert.Equal(t, "$ 45.000", FormatPesos(45000))
	assert.Equal(t, "$ 1.250.000", FormatPesos(1250000))
	assert.Equal(t, "-$ 2.000", FormatPesos(-2000))
}

func TestMaskCard(t *testing.T) {
	assert.Equal(t, "**** **** **** 1111", MaskCard("4111 1111-1111 1111"))
	assert.Equal(t, "**** **** **** 12", MaskCard("12"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}
