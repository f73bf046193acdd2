package wavtap

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWavTapHeaderReflectsActualSampleCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tap.wav")

	w, err := New(path, 48000, 4) // tiny buffer so we exercise multiple flushes
	require.NoError(t, err)

	const numSamples = 13 // not a multiple of the buffer size
	for i := 0; i < numSamples; i++ {
		w.WriteSample(int16(i))
	}
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	dataSize := binary.LittleEndian.Uint32(data[40:44])
	assert.Equal(t, uint32(numSamples*2), dataSize)

	chunkSize := binary.LittleEndian.Uint32(data[4:8])
	assert.Equal(t, uint32(36+numSamples*2), chunkSize)

	assert.Equal(t, int64(44+numSamples*2), mustStat(t, path))
}

func TestNilWavTapAcceptsWrites(t *testing.T) {
	var w *WavTap
	assert.NotPanics(t, func() {
		w.WriteSample(123)
		require.NoError(t, w.Close())
	})
}

func mustStat(t *testing.T, path string) int64 {
	t.Helper()
	fi, err := os.Stat(path)
	require.NoError(t, err)
	return fi.Size()
}
