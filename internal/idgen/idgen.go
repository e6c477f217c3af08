// Package idgen generates record ids of the form <prefix>_<YYYYMMDD_HHMMSS>,
// falling back to a nanoid suffix when the timestamp id is already taken.
package idgen

import (
	"errors"
	"fmt"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// TimestampLayout is the second-resolution stamp embedded in every id.
const TimestampLayout = "20060102_150405"

// Alphabet defines the character set used for the collision suffix.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters in the collision suffix.
var Length = 6

// maxAttempts bounds suffix retries before giving up.
const maxAttempts = 16

// ErrExhausted is returned when no free id could be found.
var ErrExhausted = errors.New("idgen: no free id")

// Generate returns prefix_<timestamp of now>. When taken reports that id as
// used, a random suffix is appended until a free id is found.
func Generate(prefix string, now time.Time, taken func(string) bool) (string, error) {
	id := prefix + "_" + now.Format(TimestampLayout)
	if taken == nil || !taken(id) {
		return id, nil
	}
	for i := 0; i < maxAttempts; i++ {
		suffix, err := nanoid.Generate(Alphabet, Length)
		if err != nil {
			return "", fmt.Errorf("idgen: %w", err)
		}
		candidate := id + "_" + suffix
		if !taken(candidate) {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}
