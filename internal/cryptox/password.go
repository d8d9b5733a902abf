// Package cryptox holds the password hashing used by the server.
//
// Hashes are PBKDF2-HMAC-SHA256 and are stored as
//
//	<iterations>.<base64 salt>.<base64 key>
//
// The iteration count travels with every hash, so the work factor can be
// raised for new hashes while old ones keep verifying.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/userauth/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the salt length in bytes.
	SaltSize = 16
	// KeySize is the derived key length in bytes (SHA-256 output size).
	KeySize = sha256.Size
	// DefaultIterations is the work factor used for new hashes.
	DefaultIterations = 10000
	// MaxIterations caps what Verify will accept from a stored hash.
	MaxIterations = 10_000_000

	hashDelimiter = "."
)

var encoding = base64.StdEncoding

// StoredHash is the parsed form of a stored password hash.
type StoredHash struct {
	Iterations int
	Salt       []byte
	Key        []byte
}

// String serializes h in the stored format.
func (h StoredHash) String() string {
	return strings.Join([]string{
		strconv.Itoa(h.Iterations),
		encoding.EncodeToString(h.Salt),
		encoding.EncodeToString(h.Key),
	}, hashDelimiter)
}

// ParseStoredHash decodes s. Any deviation from the format, including wrong
// salt or key lengths, yields common.ErrMalformedStoredHash.
func ParseStoredHash(s string) (StoredHash, error) {
	parts := strings.Split(s, hashDelimiter)
	if len(parts) != 3 {
		return StoredHash{}, fmt.Errorf("%w: expected 3 fields, got %d", common.ErrMalformedStoredHash, len(parts))
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 || iterations > MaxIterations {
		return StoredHash{}, fmt.Errorf("%w: bad iteration count", common.ErrMalformedStoredHash)
	}

	salt, err := encoding.DecodeString(parts[1])
	if err != nil || len(salt) != SaltSize {
		return StoredHash{}, fmt.Errorf("%w: bad salt", common.ErrMalformedStoredHash)
	}

	key, err := encoding.DecodeString(parts[2])
	if err != nil || len(key) != KeySize {
		return StoredHash{}, fmt.Errorf("%w: bad key", common.ErrMalformedStoredHash)
	}

	return StoredHash{Iterations: iterations, Salt: salt, Key: key}, nil
}

// Verification is the outcome of PasswordHasher.Verify.
type Verification struct {
	// Verified is true only when the candidate matches.
	Verified bool
	// NeedsUpgrade reports a verified hash made with fewer iterations than
	// the hasher currently uses.
	NeedsUpgrade bool
	// Malformed reports that the stored string could not be parsed.
	Malformed bool
}

// PasswordHasher derives and verifies salted password hashes. It holds no
// mutable state and is safe for concurrent use.
type PasswordHasher struct {
	iterations int
	random     io.Reader
}

// NewPasswordHasher returns a hasher using the given iteration count for new
// hashes. Non-positive counts fall back to DefaultIterations.
func NewPasswordHasher(iterations int) *PasswordHasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &PasswordHasher{iterations: iterations, random: rand.Reader}
}

// Iterations returns the work factor applied to new hashes.
func (h *PasswordHasher) Iterations() int {
	return h.iterations
}

// Hash salts and derives plaintext and returns the stored form.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	stored := StoredHash{
		Iterations: h.iterations,
		Salt:       salt,
		Key:        deriveKey(plaintext, salt, h.iterations),
	}
	return stored.String(), nil
}

// Verify checks candidate against stored. It fails closed: anything other
// than a well-formed hash whose key matches gives Verified == false.
func (h *PasswordHasher) Verify(stored, candidate string) Verification {
	parsed, err := ParseStoredHash(stored)
	if err != nil {
		return Verification{Malformed: true}
	}

	key := deriveKey(candidate, parsed.Salt, parsed.Iterations)
	if subtle.ConstantTimeCompare(key, parsed.Key) != 1 {
		return Verification{}
	}

	return Verification{
		Verified:     true,
		NeedsUpgrade: parsed.Iterations < h.iterations,
	}
}

func deriveKey(plaintext string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(plaintext), salt, iterations, KeySize, sha256.New)
}
