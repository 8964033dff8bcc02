package descset

import (
	"crypto/sha1" //nolint:gosec // equality oracle, not a security boundary
	"encoding/binary"
	"encoding/hex"
)

// Fingerprint is a 160-bit digest of a compiled layout. Two layouts with
// equal fingerprints are binary compatible.
//
// Immutable samplers are not part of the digest: layouts that differ only
// in which samplers they capture have the same fingerprint.
type Fingerprint [sha1.Size]byte

// String returns the digest in hex.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// IsZero reports whether f is the zero value.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// fingerprintWords is the number of uint32 words hashed per binding.
const fingerprintWords = 6

// computeFingerprint hashes, as little-endian uint32 words: the descriptor
// buffer size, the dynamic buffer count, the binding count, then per slot
// type, flags, array size, offset, stride and dynamic buffer index.
func (l *Layout) computeFingerprint() Fingerprint {
	buf := make([]byte, 0, 4*(3+fingerprintWords*len(l.bindings)))
	buf = binary.LittleEndian.AppendUint32(buf, l.descriptorBufferSize)
	buf = binary.LittleEndian.AppendUint32(buf, l.dynamicBufferCount)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(l.bindings)))
	for i := range l.bindings {
		b := &l.bindings[i]
		buf = binary.LittleEndian.AppendUint32(buf, uint32(b.Type))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(b.Flags))
		buf = binary.LittleEndian.AppendUint32(buf, b.ArraySize)
		buf = binary.LittleEndian.AppendUint32(buf, b.Offset)
		buf = binary.LittleEndian.AppendUint32(buf, b.Stride)
		buf = binary.LittleEndian.AppendUint32(buf, b.DynamicBufferIndex)
	}
	return sha1.Sum(buf)
}
