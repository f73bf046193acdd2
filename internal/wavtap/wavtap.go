// Package wavtap implements an optional write-only 16-bit mono
// little-endian PCM sink used for debug instrumentation of the pulse
// detection core. It is a boundary concern: the core never opens one
// itself, callers construct and pass taps in explicitly.
package wavtap

import (
	"encoding/binary"
	"io"
	"os"
)

const headerSize = 44

// WavTap buffers and writes 16-bit mono PCM samples to a RIFF/WAVE file,
// patching the header's chunk sizes on Close once the true sample count
// is known.
type WavTap struct {
	file           *os.File
	sampleRate     uint32
	buffer         []int16
	bufPos         int
	samplesWritten uint64
}

// New creates a WavTap writing to filename at the given sample rate, with
// an internal write buffer of bufferSize samples. A RIFF/WAVE header with
// placeholder chunk sizes is written immediately.
func New(filename string, sampleRate uint32, bufferSize int) (*WavTap, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	w := &WavTap{
		file:       f,
		sampleRate: sampleRate,
		buffer:     make([]int16, bufferSize),
	}

	if err := w.writeHeader(0x0FFFFFFF); err != nil {
		f.Close()
		return nil, err
	}

	return w, nil
}

func (w *WavTap) writeHeader(dataSize uint32) error {
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	byteRate := w.sampleRate * 2
	chunkSize := uint32(36) + dataSize

	fields := []struct {
		data any
	}{
		{[4]byte{'R', 'I', 'F', 'F'}},
		{chunkSize},
		{[4]byte{'W', 'A', 'V', 'E'}},
		{[4]byte{'f', 'm', 't', ' '}},
		{uint32(16)},
		{uint16(1)}, // PCM
		{uint16(1)}, // mono
		{w.sampleRate},
		{byteRate},
		{uint16(2)}, // block align
		{uint16(16)}, // bits per sample
		{[4]byte{'d', 'a', 't', 'a'}},
		{dataSize},
	}
	for _, f := range fields {
		if err := binary.Write(w.file, binary.LittleEndian, f.data); err != nil {
			return err
		}
	}
	return nil
}

// WriteSample buffers one sample, flushing to disk whenever the buffer
// fills. A nil tap silently accepts (and discards) writes, so callers can
// pass a nil *WavTap for "no tap configured" without a branch at every
// call site.
func (w *WavTap) WriteSample(sample int16) {
	if w == nil {
		return
	}

	w.buffer[w.bufPos] = sample
	w.bufPos++
	w.samplesWritten++

	if w.bufPos == len(w.buffer) {
		w.flush(w.bufPos)
		w.bufPos = 0
	}
}

func (w *WavTap) flush(n int) {
	if n == 0 {
		return
	}
	// Fixed vs. the original's flush_buffer, which computed the
	// remainder with samples_written % buffer_size and then added that
	// same remainder back into samples_written a second time, inflating
	// the final header's data_size beyond the sample count actually
	// written. samplesWritten is already the true total; flush only
	// moves bytes to disk.
	binary.Write(w.file, binary.LittleEndian, w.buffer[:n])
}

// Close flushes any buffered samples and patches the WAV header with the
// actual sample count. It is safe to call on a nil tap.
func (w *WavTap) Close() error {
	if w == nil {
		return nil
	}

	w.flush(w.bufPos)
	w.bufPos = 0

	dataSize := uint32(w.samplesWritten * 2)
	if err := w.writeHeader(dataSize); err != nil {
		w.file.Close()
		return err
	}

	return w.file.Close()
}
