package cryptobox

import "sync/atomic"

// Session is the session-scoped slot for the active key. It replaces ambient
// global state: every caller that wants to encrypt or decrypt must hold the
// session, so a key cannot outlive the login that created it.
//
// The slot is a single atomic pointer. Reads racing a Clear observe either
// the old key or nil, never a torn value. The key is set once after login,
// read by many concurrent decrypt calls (e.g. a day's worth of entries), and
// cleared on logout or when the user disables encryption.
type Session struct {
	key atomic.Pointer[Key]
}

func NewSession() *Session {
	return &Session{}
}

// SetKey installs the active key. Called once, right after a successful login
// when the server reports encryption is enabled for the user.
func (s *Session) SetKey(k *Key) {
	s.key.Store(k)
}

// Clear drops the active key. Must be called on logout and on
// disable-encryption; a stale key left behind is usable by the next user on
// the same device.
func (s *Session) Clear() {
	s.key.Store(nil)
}

// Enabled reports whether an active key is currently set.
func (s *Session) Enabled() bool {
	return s.key.Load() != nil
}

// Encrypt seals plaintext with the active key. Returns ErrNoActiveKey when
// the session has none; callers on the write path must abort the write on
// any error here rather than fall back to plaintext.
func (s *Session) Encrypt(plaintext string) (string, error) {
	k := s.key.Load()
	if k == nil {
		return "", ErrNoActiveKey
	}
	return k.Encrypt(plaintext)
}

// Decrypt opens an envelope with the active key. Failures are local to the
// one payload; batch callers convert them to per-item error markers instead
// of aborting the whole fetch.
func (s *Session) Decrypt(envelope string) (string, error) {
	k := s.key.Load()
	if k == nil {
		return "", ErrNoActiveKey
	}
	return k.Decrypt(envelope)
}
