package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalUnit(t *testing.T) {
	u, ok := CanonicalUnit(" sf ")
	assert.True(t, ok)
	assert.Equal(t, SquareFeet, u)

	u, ok = CanonicalUnit("gal")
	assert.True(t, ok)
	assert.Equal(t, Gallons, u)

	_, ok = CanonicalUnit("TON")
	assert.False(t, ok)
}

func TestUnitPattern(t *testing.T) {
	assert.Equal(t, "SF|SQ|LF|EA|HR|SY|CF|CY|GAL|LS", UnitPattern())
}

func TestMapExtToFormat(t *testing.T) {
	assert.Equal(t, PDF, MapExtToFormat(".PDF"))
	assert.Equal(t, TEXT, MapExtToFormat("txt"))
	assert.Equal(t, "", MapExtToFormat(".docx"))
}
