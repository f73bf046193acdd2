package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestMedianFilterConstantStream(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		window := rapid.IntRange(1, 31).Draw(t, "window")
		c := int16(rapid.IntRange(-5000, 5000).Draw(t, "c"))

		f := NewMedianFilter(window)
		var out int16
		for i := 0; i < window+5; i++ {
			out = f.Process(c)
		}

		assert.Equal(t, c, out)
	})
}

func TestMedianFilterMonotoneInputStaysMonotone(t *testing.T) {
	f := NewMedianFilter(5)
	var prev int16 = -32768
	for i := int16(0); i < 200; i++ {
		out := f.Process(i)
		assert.GreaterOrEqual(t, out, prev)
		prev = out
	}
}

func TestMedianFilterInitialWindowIsZero(t *testing.T) {
	f := NewMedianFilter(15)
	assert.Equal(t, int16(0), f.Process(0))
}
