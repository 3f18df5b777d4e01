package repo

import (
	"crypto/rand"
)

const (
	// PublicIDLength is the length of generated public ids.
	PublicIDLength = 8

	publicIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Largest multiple of len(alphabet) that fits in a byte; bytes at or above
	// it are rejected so every symbol is equally likely.
	publicIDRejectAbove = 256 - 256%len(publicIDAlphabet)
)

// NewPublicID returns a random alphanumeric id of PublicIDLength symbols.
// Collisions are not checked; at 62^8 ids they are negligible for our scale.
func NewPublicID() string {
	out := make([]byte, 0, PublicIDLength)
	buf := make([]byte, PublicIDLength*2)
	for len(out) < PublicIDLength {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic("repo: crypto/rand unavailable: " + err.Error())
		}
		for _, b := range buf {
			if int(b) >= publicIDRejectAbove {
				continue
			}
			out = append(out, publicIDAlphabet[int(b)%len(publicIDAlphabet)])
			if len(out) == PublicIDLength {
				break
			}
		}
	}
	return string(out)
}
