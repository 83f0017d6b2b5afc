// Package checksum computes a digest over a segment's PCM buffer, stored in
// the timeline sidecar for regression verification across builds.
package checksum

import (
	"encoding/hex"
	"math"

	"golang.org/x/crypto/sha3"
)

// PCM computes a SHA3-256 digest over the interleaved stereo float64 PCM
// samples, encoding each sample as its IEEE-754 big-endian bit pattern
// before hashing so the digest is independent of the platform's in-memory
// float representation.
func PCM(l, r []float64) string {
	h := sha3.New256()
	buf := make([]byte, 8)
	for i := range l {
		putFloat64(buf, l[i])
		h.Write(buf)
		putFloat64(buf, r[i])
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func putFloat64(buf []byte, f float64) {
	bits := math.Float64bits(f)
	buf[0] = byte(bits >> 56)
	buf[1] = byte(bits >> 48)
	buf[2] = byte(bits >> 40)
	buf[3] = byte(bits >> 32)
	buf[4] = byte(bits >> 24)
	buf[5] = byte(bits >> 16)
	buf[6] = byte(bits >> 8)
	buf[7] = byte(bits)
}
