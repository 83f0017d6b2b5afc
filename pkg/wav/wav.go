// Package wav reads and writes the RIFF/WAVE PCM16 stereo container used as
// the public audio artifact. It is a boundary codec, not a core invariant:
// correctness here is "matches the RIFF spec", not a musical property.
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	ebitenwav "github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const (
	numChannels   = 2
	bitsPerSample = 16
	formatPCM     = 1

	// expectedSampleRate is the engine's fixed output rate (musictime.SampleRate);
	// duplicated here as a literal to avoid a wav->musictime import cycle.
	expectedSampleRate = 44100
)

// WriteFile writes l, r (float64 samples in [-1,1]) as a 16-bit PCM stereo
// WAV at sampleRate to path. The write is atomic: it writes to a temp file
// in the same directory and renames into place, so a failing write never
// leaves a partial WAV at path.
func WriteFile(path string, sampleRate int, l, r []float64) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("wav: create temp file: %w", err)
	}

	if err := Write(f, sampleRate, l, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("wav: write: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("wav: close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("wav: rename into place: %w", err)
	}
	return nil
}

// Write encodes l, r as 16-bit PCM stereo WAV to w.
func Write(w io.Writer, sampleRate int, l, r []float64) error {
	if len(l) != len(r) {
		return fmt.Errorf("wav: channel length mismatch: %d vs %d", len(l), len(r))
	}
	numSamples := len(l)
	dataSize := numSamples * numChannels * (bitsPerSample / 8)
	byteRate := sampleRate * numChannels * (bitsPerSample / 8)
	blockAlign := numChannels * (bitsPerSample / 8)

	if _, err := w.Write([]byte("RIFF")); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(36+dataSize)); err != nil {
		return err
	}
	if _, err := w.Write([]byte("WAVE")); err != nil {
		return err
	}
	if _, err := w.Write([]byte("fmt ")); err != nil {
		return err
	}
	if err := writeUint32(w, 16); err != nil {
		return err
	}
	if err := writeUint16(w, formatPCM); err != nil {
		return err
	}
	if err := writeUint16(w, numChannels); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(sampleRate)); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(byteRate)); err != nil {
		return err
	}
	if err := writeUint16(w, uint16(blockAlign)); err != nil {
		return err
	}
	if err := writeUint16(w, bitsPerSample); err != nil {
		return err
	}
	if _, err := w.Write([]byte("data")); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(dataSize)); err != nil {
		return err
	}

	for i := 0; i < numSamples; i++ {
		if err := writeInt16(w, floatToInt16(l[i])); err != nil {
			return err
		}
		if err := writeInt16(w, floatToInt16(r[i])); err != nil {
			return err
		}
	}
	return nil
}

func floatToInt16(v float64) int16 {
	if v > 1.0 {
		v = 1.0
	}
	if v < -1.0 {
		v = -1.0
	}
	return int16(math.Round(v * 32767.0))
}

func writeUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeUint16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeInt16(w io.Writer, v int16) error {
	return writeUint16(w, uint16(v))
}

// Audio is a decoded PCM16 stereo WAV file, float64 samples in [-1,1], used
// by the analyzer fallback when no timeline sidecar is present.
type Audio struct {
	SampleRate int
	L, R       []float64
}

// ReadFile decodes a 16-bit PCM stereo WAV from path.
func ReadFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wav: open: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a 16-bit PCM stereo WAV from r using the same
// `ebiten/v2/audio/wav` decoder the teacher uses for playback, repurposed
// here for offline analysis rather than a live audio.Context stream.
// DecodeWithSampleRate resamples to the sample rate requested, so decoding
// at musictime.SampleRate leaves an already-44100Hz file unchanged.
func Read(r io.Reader) (*Audio, error) {
	stream, err := ebitenwav.DecodeWithSampleRate(expectedSampleRate, r)
	if err != nil {
		return nil, fmt.Errorf("wav: decode: %w", err)
	}

	raw, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("wav: read decoded stream: %w", err)
	}

	numSamples := len(raw) / (numChannels * (bitsPerSample / 8))
	l := make([]float64, numSamples)
	rr := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		lv := int16(binary.LittleEndian.Uint16(raw[i*4 : i*4+2]))
		rv := int16(binary.LittleEndian.Uint16(raw[i*4+2 : i*4+4]))
		l[i] = float64(lv) / 32768.0
		rr[i] = float64(rv) / 32768.0
	}
	return &Audio{SampleRate: expectedSampleRate, L: l, R: rr}, nil
}
