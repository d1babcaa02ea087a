package encio

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
)

const (
	// SignSize is the length of a message signature.
	SignSize = 8

	// MinMaskKeyLen is the shortest mask key used as-is.
	// Shorter keys are replaced by the hex MD5 digest of the key.
	MinMaskKeyLen = 8
)

// Sign returns the signature of data; the first SignSize hex characters of its MD5 digest.
func Sign(data []byte) []byte {
	sum := md5.Sum(data)
	sig := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(sig, sum[:])
	return sig[:SignSize]
}

// CheckSign reports whether the last SignSize bytes of data are the signature of the bytes before them.
func CheckSign(data []byte) bool {
	if len(data) < SignSize {
		return false
	}
	body := data[:len(data)-SignSize]
	return bytes.Equal(Sign(body), data[len(body):])
}

// MaskKey returns the effective mask key for key.
func MaskKey(key string) []byte {
	if len(key) < MinMaskKeyLen {
		sum := md5.Sum([]byte(key))
		return []byte(hex.EncodeToString(sum[:]))
	}
	return []byte(key)
}

// Mask XORs data in place with key, repeating key as needed.
// Masking twice with the same key restores data.
func Mask(data, key []byte) {
	if len(key) == 0 {
		panic(NewError(ErrMask, "empty mask key", ""))
	}
	for i := range data {
		data[i] ^= key[i%len(key)]
	}
}
