package cryptobox

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	t.Run("rejects empty inputs", func(t *testing.T) {
		_, err := DeriveKey("", "salt")
		assert.ErrorIs(t, err, ErrKeyDerivation)

		_, err = DeriveKey("password", "")
		assert.ErrorIs(t, err, ErrKeyDerivation)
	})

	t.Run("deterministic for same inputs", func(t *testing.T) {
		k1, err := DeriveKey("correct horse battery staple", "a1b2c3d4")
		require.NoError(t, err)
		k2, err := DeriveKey("correct horse battery staple", "a1b2c3d4")
		require.NoError(t, err)

		// Two independently derived keys must decrypt each other's envelopes.
		env, err := k1.Encrypt("wrote three pages today")
		require.NoError(t, err)

		plain, err := k2.Decrypt(env)
		require.NoError(t, err)
		assert.Equal(t, "wrote three pages today", plain)
	})

	t.Run("different salt yields incompatible key", func(t *testing.T) {
		k1, err := DeriveKey("same password", "salt-one")
		require.NoError(t, err)
		k2, err := DeriveKey("same password", "salt-two")
		require.NoError(t, err)

		env, err := k1.Encrypt("private thought")
		require.NoError(t, err)

		_, err = k2.Decrypt(env)
		assert.ErrorIs(t, err, ErrDecrypt)
	})
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := DeriveKey("hunter2", "0011223344556677")
	require.NoError(t, err)

	cases := []string{
		"",
		"short",
		"a quiet day. nothing much happened.",
		"unicode: 日記を書いた ✍️",
		strings.Repeat("long entry ", 500),
	}

	for _, plaintext := range cases {
		env, err := key.Encrypt(plaintext)
		require.NoError(t, err)
		assert.True(t, IsEnvelope(env), "encrypt output must be recognized as envelope")

		got, err := key.Decrypt(env)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	key, err := DeriveKey("hunter2", "0011223344556677")
	require.NoError(t, err)

	env1, err := key.Encrypt("same input")
	require.NoError(t, err)
	env2, err := key.Encrypt("same input")
	require.NoError(t, err)

	// Fresh nonce per call: identical plaintext must not produce identical envelopes.
	assert.NotEqual(t, env1, env2)
}

func TestDecryptWrongKey(t *testing.T) {
	k1, err := DeriveKey("password-one", "salt")
	require.NoError(t, err)
	k2, err := DeriveKey("password-two", "salt")
	require.NoError(t, err)

	env, err := k1.Encrypt("dear diary")
	require.NoError(t, err)

	// Wrong key must fail loudly, never return plausible wrong plaintext.
	plain, err := k2.Decrypt(env)
	assert.ErrorIs(t, err, ErrDecrypt)
	assert.Empty(t, plain)
}

func TestDecryptCorruptedEnvelope(t *testing.T) {
	key, err := DeriveKey("hunter2", "0011223344556677")
	require.NoError(t, err)

	env, err := key.Encrypt("original content")
	require.NoError(t, err)

	// Flip one byte inside the ciphertext body.
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(env, EnvelopePrefix))
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	corrupted := EnvelopePrefix + base64.StdEncoding.EncodeToString(raw)

	_, err = key.Decrypt(corrupted)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecryptMalformedInputs(t *testing.T) {
	key, err := DeriveKey("hunter2", "0011223344556677")
	require.NoError(t, err)

	cases := map[string]string{
		"plain text":       "just a normal note",
		"prefix only":      EnvelopePrefix,
		"bad base64":       EnvelopePrefix + "!!!not-base64!!!",
		"too short":        EnvelopePrefix + base64.StdEncoding.EncodeToString([]byte("tiny")),
		"empty":            "",
		"prefix elsewhere": "note about jrnl1: format",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := key.Decrypt(input)
			assert.ErrorIs(t, err, ErrDecrypt)
		})
	}
}

func TestIsEnvelope(t *testing.T) {
	key, err := DeriveKey("hunter2", "0011223344556677")
	require.NoError(t, err)

	t.Run("true for real envelopes", func(t *testing.T) {
		env, err := key.Encrypt("entry body")
		require.NoError(t, err)
		assert.True(t, IsEnvelope(env))
	})

	t.Run("false for plausible user text", func(t *testing.T) {
		samples := []string{
			"",
			"went for a run, 5k in 28 minutes",
			"TODO: call mom",
			"jrnl1: is the prefix the app uses",     // prefix but not base64 of GCM size
			EnvelopePrefix + "aGVsbG8=",             // valid base64, too short for nonce+tag
			"https://example.com/jrnl1:something",   // prefix not at start
			"multi\nline\nnote with: colons, stuff", // shape of arbitrary text
		}
		for _, s := range samples {
			assert.False(t, IsEnvelope(s), "should not sniff %q as envelope", s)
		}
	})
}

func TestMixedHistoryScenario(t *testing.T) {
	// A user enables encryption after having written plaintext entries:
	// the old ones stay readable (passthrough), new ones round-trip.
	key, err := DeriveKey("late-adopter", "salt-late")
	require.NoError(t, err)

	history := make([]string, 0, 11)
	for i := 0; i < 10; i++ {
		history = append(history, "plaintext entry before encryption")
	}
	encrypted, err := key.Encrypt("first encrypted entry")
	require.NoError(t, err)
	history = append(history, encrypted)

	readable := 0
	for _, payload := range history {
		if IsEnvelope(payload) {
			plain, err := key.Decrypt(payload)
			require.NoError(t, err)
			assert.Equal(t, "first encrypted entry", plain)
			readable++
		} else {
			// Passthrough: treated as plaintext, never an error.
			readable++
		}
	}
	assert.Equal(t, 11, readable)
}
