package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HashSize is the size of a block hash in bytes.
const HashSize = 32

// Hash is a 256-bit block digest. The zero value is never the hash of a real
// block and is used as a sentinel.
type Hash [HashSize]byte

// ZeroHash is the all-zero sentinel hash.
var ZeroHash Hash

// HashFromHex parses a hexadecimal digest, with or without a 0x prefix.
// Shorter inputs are left-padded with zeros, so "0x" parses to ZeroHash.
// Digits beyond the 64th may only be leading zeros.
func HashFromHex(s string) (Hash, error) {
	var h Hash

	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s) > 2*HashSize {
		if strings.TrimLeft(s[:len(s)-2*HashSize], "0") != "" {
			return h, fmt.Errorf("invalid hash %q: more than %d bytes", s, HashSize)
		}
		s = s[len(s)-2*HashSize:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}

	bz, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	copy(h[HashSize-len(bz):], bz)
	return h, nil
}

// MustHashFromHex is like HashFromHex but panics on malformed input. It is
// meant for compiled-in tables.
func MustHashFromHex(s string) Hash {
	h, err := HashFromHex(s)
	if err != nil {
		panic(err)
	}
	return h
}

// IsZero reports whether h is the sentinel hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Bytes returns a copy of the digest.
func (h Hash) Bytes() []byte {
	bz := make([]byte, HashSize)
	copy(bz, h[:])
	return bz
}

func (h Hash) String() string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

// ShortString returns the first three bytes of the hash, for log lines.
func (h Hash) ShortString() string {
	return strings.ToUpper(hex.EncodeToString(h[:3]))
}

// MarshalText encodes the hash as hexadecimal digits.
// This method is used by json.Marshal and the TOML encoder.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes a hexadecimal hash, see HashFromHex.
func (h *Hash) UnmarshalText(data []byte) error {
	parsed, err := HashFromHex(string(data))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// HashFromBytes converts a raw 32 byte digest.
func HashFromBytes(bz []byte) (Hash, error) {
	var h Hash
	if len(bz) != HashSize {
		return h, fmt.Errorf("expected %d byte hash, got %d", HashSize, len(bz))
	}
	copy(h[:], bz)
	return h, nil
}
