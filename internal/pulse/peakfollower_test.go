package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeakFollowerGatesBelowMinVal(t *testing.T) {
	p := NewPeakFollower(0.05, 0.99999, -20)

	var high int16
	for i := 0; i < 50; i++ {
		high, _ = p.Process(100) // well below the -20dB gate (~3276)
	}

	assert.Equal(t, int16(0), high)
}

func TestPeakFollowerTracksLoudSignal(t *testing.T) {
	p := NewPeakFollower(0.05, 0.99999, -20)

	var high int16
	for i := 0; i < 2000; i++ {
		high, _ = p.Process(20000)
	}

	assert.Greater(t, high, int16(15000))
	assert.LessOrEqual(t, high, int16(20000))
}

func TestPeakFollowerDecaysToGateAfterSustainedSilence(t *testing.T) {
	p := NewPeakFollower(0.05, 0.99999, -20)

	for i := 0; i < 2000; i++ {
		p.Process(20000)
	}

	var high int16 = 1
	for i := 0; i < 2_000_000 && high != 0; i++ {
		high, _ = p.Process(0)
	}

	assert.Equal(t, int16(0), high)
}
