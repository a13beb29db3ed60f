package cryptobox

import "errors"

var (
	// ErrKeyDerivation signals missing or unusable derivation inputs.
	ErrKeyDerivation = errors.New("cryptobox: key derivation failed")

	// ErrNoActiveKey signals an encrypt/decrypt attempt on a session without
	// a key. This is a state error on our side, not user input.
	ErrNoActiveKey = errors.New("cryptobox: no active key in session")

	// ErrDecrypt signals a wrong key or a malformed/corrupted envelope.
	ErrDecrypt = errors.New("cryptobox: decryption failed")
)
