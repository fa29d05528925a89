package recordfiles

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"
)

// Checksums are stored algorithm-prefixed, e.g. "md5:1a2b...".
const (
	ChecksumAlgMD5    = "md5"
	ChecksumAlgSHA256 = "sha256"
)

// ParseChecksum splits an algorithm-prefixed digest into its parts.
// A digest without a prefix is assumed to be md5, matching what the
// object stores emit.
func ParseChecksum(checksum string) (alg, digest string) {
	if idx := strings.Index(checksum, ":"); idx >= 0 {
		return strings.ToLower(checksum[:idx]), strings.ToLower(checksum[idx+1:])
	}
	return ChecksumAlgMD5, strings.ToLower(checksum)
}

// FormatChecksum renders a digest in the stored "alg:hex" form.
func FormatChecksum(alg string, sum []byte) string {
	return alg + ":" + hex.EncodeToString(sum)
}

// ComputeChecksum digests reader with the named algorithm.
func ComputeChecksum(alg string, reader io.Reader) (string, error) {
	var h hash.Hash
	switch strings.ToLower(alg) {
	case ChecksumAlgMD5:
		h = md5.New()
	case ChecksumAlgSHA256:
		h = sha256.New()
	default:
		return "", fmt.Errorf("unsupported checksum algorithm %q", alg)
	}
	if _, err := io.Copy(h, reader); err != nil {
		return "", err
	}
	return FormatChecksum(strings.ToLower(alg), h.Sum(nil)), nil
}

// ChecksumsEqual compares two algorithm-prefixed digests. Digests with
// different algorithms never compare equal; comparison is
// case-insensitive on the hex part. An empty actual digest means the
// backend could not produce one, which callers treat as "cannot
// verify" rather than a mismatch.
func ChecksumsEqual(expected, actual string) bool {
	expAlg, expDigest := ParseChecksum(expected)
	actAlg, actDigest := ParseChecksum(actual)
	return expAlg == actAlg && expDigest == actDigest && expDigest != ""
}
