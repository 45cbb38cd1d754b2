// Package id generates prefixed unique identifiers for domain entities.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// alphabet is the URL-safe character set used for ID generation.
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"
	// length is the number of random characters in the generated portion.
	length = 21
)

// Generate creates a new unique identifier with the given prefix.
// The resulting ID has the form "{prefix}-{nanoid}", e.g. "book-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("generating nanoid: %w", err)
	}
	return fmt.Sprintf("%s-%s", prefix, nid), nil
}

// MustGenerate is like Generate but panics on error. Use only where an
// ID generation failure is unrecoverable.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(err)
	}
	return id
}
