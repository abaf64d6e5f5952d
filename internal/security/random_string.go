package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// PassphraseAlphabet omits characters that are easy to misread on paper.
const PassphraseAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
	errNoGroups       = errors.New("passphrase needs at least one group")
)

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", errNegativeLength
	case length == 0:
		return "", nil
	case alphabet == "":
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	var builder strings.Builder
	builder.Grow(length)
	for builder.Len() < length {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[position.Int64()])
	}
	return builder.String(), nil
}

// RandomPassphrase returns groups of groupLength characters joined by dashes, e.g. "k3mf-9qzt-a2hx".
func RandomPassphrase(groups int, groupLength int) (string, error) {
	if groups <= 0 {
		return "", errNoGroups
	}
	parts := make([]string, 0, groups)
	for index := 0; index < groups; index++ {
		part, err := RandomString(groupLength, PassphraseAlphabet)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "-"), nil
}
