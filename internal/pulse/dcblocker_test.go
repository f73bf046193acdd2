package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDcBlockerSuppressesConstantInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.IntRange(4, 64).Draw(t, "length")
		c := int16(rapid.IntRange(-1000, 1000).Draw(t, "c"))

		d := NewDcBlocker(length)
		var out int16
		for i := 0; i < length; i++ {
			out = d.Filter(c)
		}

		assert.LessOrEqual(t, abs(int(out)), 1)
	})
}

func TestDcBlockerZeroInputStaysZero(t *testing.T) {
	d := NewDcBlocker(8)
	for i := 0; i < 8; i++ {
		assert.Equal(t, int16(0), d.Filter(0))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
