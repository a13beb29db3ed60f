// Package cryptobox implements the client-side content codec: a per-user
// symmetric key derived from the login password and a stored salt, and an
// AES-256-GCM envelope format for journal entry and analysis text.
//
// The server never holds a key. Everything here is pure in-memory transform;
// all I/O belongs to the caller.
package cryptobox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// EnvelopePrefix marks an encrypted payload. It is the structural tag that
// distinguishes an envelope from user-typed plaintext.
const EnvelopePrefix = "jrnl1:"

// Argon2id parameters. Fixed: changing them would break decryption of
// previously written envelopes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32
)

const nonceSize = 12

// gcmOverhead is nonce + GCM auth tag, the minimum size of a raw envelope body.
const gcmOverhead = nonceSize + 16

// Key is an opaque handle to derived symmetric key material. It precomputes
// the AEAD so encrypt/decrypt calls do no setup work.
type Key struct {
	aead cipher.AEAD
}

// DeriveKey derives a key from the user's plaintext password and the per-user
// salt stored on the server. Same inputs always produce the same key, so a
// user can decrypt old envelopes after every login; the derivation is not
// invertible back to the password.
func DeriveKey(password, salt string) (*Key, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", ErrKeyDerivation)
	}
	if salt == "" {
		return nil, fmt.Errorf("%w: empty salt", ErrKeyDerivation)
	}

	material := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, keyLen)

	block, err := aes.NewCipher(material)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}

	return &Key{aead: aead}, nil
}

// Encrypt seals plaintext into a self-describing envelope:
// EnvelopePrefix + base64(nonce || ciphertext). A fresh random nonce is used
// per call, so encrypting the same text twice yields different envelopes.
func (k *Key) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := k.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return EnvelopePrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt. A wrong key, malformed
// envelope or flipped byte fails the GCM tag check and surfaces as ErrDecrypt;
// it never returns garbage plaintext.
func (k *Key) Decrypt(envelope string) (string, error) {
	body, ok := strings.CutPrefix(envelope, EnvelopePrefix)
	if !ok {
		return "", fmt.Errorf("%w: missing envelope prefix", ErrDecrypt)
	}

	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 body", ErrDecrypt)
	}
	if len(raw) < gcmOverhead {
		return "", fmt.Errorf("%w: envelope too short", ErrDecrypt)
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := k.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Authentication failure: wrong key or tampered ciphertext.
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return string(plaintext), nil
}

// IsEnvelope is a cheap structural test: prefix, valid base64, minimum GCM
// length. No decryption is attempted. Callers must treat a false result as
// "plaintext" and carry on; stored rows additionally carry an explicit
// encoding tag which is authoritative, so this check only matters for
// payloads written before the tag existed.
func IsEnvelope(payload string) bool {
	body, ok := strings.CutPrefix(payload, EnvelopePrefix)
	if !ok {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return false
	}
	return len(raw) >= gcmOverhead
}
