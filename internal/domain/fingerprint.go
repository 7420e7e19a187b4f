package domain

import (
	"hash/crc32"
	"strconv"
)

// Fingerprint is a CRC32 (IEEE) checksum used for change detection.
type Fingerprint uint32

func Checksum(data []byte) Fingerprint {
	return Fingerprint(crc32.ChecksumIEEE(data))
}

func ChecksumString(value string) Fingerprint {
	return Checksum([]byte(value))
}

// Combine folds fingerprints with XOR. The result does not depend on order,
// so callers sort what they combine when membership must be stable.
func Combine(values ...Fingerprint) Fingerprint {
	var out Fingerprint
	for _, value := range values {
		out ^= value
	}
	return out
}

func (f Fingerprint) IsZero() bool {
	return f == 0
}

func (f Fingerprint) String() string {
	return strconv.FormatUint(uint64(f), 10)
}

// ChecksumParts checksums parts as one stream with a NUL after each part, so
// reordering or re-splitting the parts changes the result.
func ChecksumParts(parts ...string) Fingerprint {
	h := crc32.NewIEEE()
	for _, part := range parts {
		_, _ = h.Write([]byte(part))
		_, _ = h.Write([]byte{0})
	}
	return Fingerprint(h.Sum32())
}
