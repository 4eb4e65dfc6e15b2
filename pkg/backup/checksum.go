package backup

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/adler32"
	"strings"
)

// ChecksumAlgorithm names a supported digest
type ChecksumAlgorithm int

const (
	ChecksumSHA256 ChecksumAlgorithm = iota
	ChecksumSHA512
	ChecksumAdler32
)

func (c ChecksumAlgorithm) String() string {
	switch c {
	case ChecksumSHA256:
		return "sha256"
	case ChecksumSHA512:
		return "sha512"
	case ChecksumAdler32:
		return "adler32"
	default:
		return "unknown"
	}
}

func (c ChecksumAlgorithm) hasher() hash.Hash {
	switch c {
	case ChecksumSHA512:
		return sha512.New()
	case ChecksumAdler32:
		return adler32.New()
	default:
		return sha256.New()
	}
}

// ParseChecksum splits "algorithm:hex". A bare hex string is treated as
// sha256.
func ParseChecksum(checksum string) (ChecksumAlgorithm, string, error) {
	algoName, value, found := strings.Cut(checksum, ":")
	if !found {
		return ChecksumSHA256, checksum, nil
	}

	switch algoName {
	case "sha256":
		return ChecksumSHA256, value, nil
	case "sha512":
		return ChecksumSHA512, value, nil
	case "adler32":
		return ChecksumAdler32, value, nil
	default:
		return ChecksumSHA256, "", fmt.Errorf("unknown checksum algorithm: %s", algoName)
	}
}

// CalculateChecksum returns the prefixed digest of data
func CalculateChecksum(data []byte, algorithm ChecksumAlgorithm) string {
	h := algorithm.hasher()
	h.Write(data)
	return algorithm.String() + ":" + hex.EncodeToString(h.Sum(nil))
}

// VerifyChecksum reports whether data matches checksum
func VerifyChecksum(data []byte, checksum string) (bool, error) {
	algo, expected, err := ParseChecksum(checksum)
	if err != nil {
		return false, err
	}
	_, actual, _ := strings.Cut(CalculateChecksum(data, algo), ":")
	return strings.EqualFold(actual, expected), nil
}
