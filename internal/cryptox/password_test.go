package cryptox

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hash of "test" produced by PBKDF2-HMAC-SHA256 with 10000 iterations
const knownTestHash = "10000.uBD1WOTN8bBLbKsfHAf1jQ==.5iLbJ3ncC6aUMpaiZuMnHJrRn6cxWLurUR3+x+NYvAo="

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestHashVerify_RoundTrip(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(1000)

	for _, pw := range []string{"correct-pw", "", "пароль", strings.Repeat("x", 200)} {
		stored, err := h.Hash(pw)
		require.NoError(t, err)

		v := h.Verify(stored, pw)
		assert.True(t, v.Verified, "password %q should verify", pw)
		assert.False(t, v.NeedsUpgrade)
		assert.False(t, v.Malformed)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(1000)

	stored, err := h.Hash("correct-pw")
	require.NoError(t, err)

	v := h.Verify(stored, "wrong-pw")
	assert.False(t, v.Verified)
	assert.False(t, v.Malformed)
}

func TestHash_SaltIsRandomized(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(1000)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify(a, "same").Verified)
	assert.True(t, h.Verify(b, "same").Verified)
}

func TestHash_Format(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(1234)

	stored, err := h.Hash("pw")
	require.NoError(t, err)

	parsed, err := ParseStoredHash(stored)
	require.NoError(t, err)
	assert.Equal(t, 1234, parsed.Iterations)
	assert.Len(t, parsed.Salt, SaltSize)
	assert.Len(t, parsed.Key, KeySize)
	assert.Equal(t, stored, parsed.String())
	assert.True(t, strings.HasPrefix(stored, "1234."))
}

func TestHash_DeterministicWithFixedSalt(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(1000)
	h.random = bytes.NewReader(bytes.Repeat([]byte{7}, SaltSize*2))

	a, err := h.Hash("pw")
	require.NoError(t, err)
	b, err := h.Hash("pw")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestHash_RandomFailure(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(1000)
	h.random = failingReader{}

	_, err := h.Hash("pw")
	require.Error(t, err)
}

func TestVerify_KnownHash(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(DefaultIterations)

	assert.True(t, h.Verify(knownTestHash, "test").Verified)
	assert.False(t, h.Verify(knownTestHash, "Test").Verified)
}

func TestVerify_NeedsUpgrade(t *testing.T) {
	t.Parallel()
	old := NewPasswordHasher(1000)
	current := NewPasswordHasher(2000)

	stored, err := old.Hash("pw")
	require.NoError(t, err)

	v := current.Verify(stored, "pw")
	assert.True(t, v.Verified)
	assert.True(t, v.NeedsUpgrade)

	v = current.Verify(stored, "other")
	assert.False(t, v.Verified)
	assert.False(t, v.NeedsUpgrade)
}

func TestVerify_MalformedFailsClosed(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(1000)

	good, err := h.Hash("pw")
	require.NoError(t, err)
	parts := strings.Split(good, ".")

	cases := map[string]string{
		"empty":            "",
		"two fields":       parts[0] + "." + parts[1],
		"four fields":      good + ".extra",
		"zero iterations":  "0." + parts[1] + "." + parts[2],
		"negative":         "-5." + parts[1] + "." + parts[2],
		"huge iterations":  "99999999." + parts[1] + "." + parts[2],
		"text iterations":  "many." + parts[1] + "." + parts[2],
		"bad salt base64":  parts[0] + ".!!!." + parts[2],
		"short salt":       parts[0] + ".AAAA." + parts[2],
		"bad key base64":   parts[0] + "." + parts[1] + ".%%%",
		"short key":        parts[0] + "." + parts[1] + ".AAAA",
		"plaintext stored": "pw",
	}

	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			v := h.Verify(stored, "pw")
			assert.False(t, v.Verified)
			assert.True(t, v.Malformed)

			_, err := ParseStoredHash(stored)
			assert.ErrorIs(t, err, common.ErrMalformedStoredHash)
		})
	}
}

func TestNewPasswordHasher_DefaultIterations(t *testing.T) {
	assert.Equal(t, DefaultIterations, NewPasswordHasher(0).Iterations())
	assert.Equal(t, DefaultIterations, NewPasswordHasher(-3).Iterations())
	assert.Equal(t, 42, NewPasswordHasher(42).Iterations())
}
