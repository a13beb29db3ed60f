package cryptobox

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	sess := NewSession()
	assert.False(t, sess.Enabled())

	// Encrypt before login-derived key is set.
	_, err := sess.Encrypt("hello")
	assert.ErrorIs(t, err, ErrNoActiveKey)

	key, err := DeriveKey("password", "salt")
	require.NoError(t, err)
	sess.SetKey(key)
	assert.True(t, sess.Enabled())

	env, err := sess.Encrypt("hello")
	require.NoError(t, err)

	plain, err := sess.Decrypt(env)
	require.NoError(t, err)
	assert.Equal(t, "hello", plain)

	// Logout.
	sess.Clear()
	assert.False(t, sess.Enabled())

	_, err = sess.Encrypt("hello")
	assert.ErrorIs(t, err, ErrNoActiveKey)

	_, err = sess.Decrypt(env)
	assert.ErrorIs(t, err, ErrNoActiveKey)
}

func TestSessionConcurrentReads(t *testing.T) {
	sess := NewSession()
	key, err := DeriveKey("password", "salt")
	require.NoError(t, err)
	sess.SetKey(key)

	env, err := sess.Encrypt("shared entry")
	require.NoError(t, err)

	// Many decrypts racing a Clear: each call must either succeed with the
	// old key or fail with ErrNoActiveKey. Nothing in between.
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plain, err := sess.Decrypt(env)
			if err != nil {
				assert.ErrorIs(t, err, ErrNoActiveKey)
				return
			}
			assert.Equal(t, "shared entry", plain)
		}()
	}
	sess.Clear()
	wg.Wait()
}

func TestSessionKeySwitch(t *testing.T) {
	// Second user logs in on the same device: their key replaces the slot and
	// the first user's envelopes stop decrypting.
	sess := NewSession()

	alice, err := DeriveKey("alice-password", "alice-salt")
	require.NoError(t, err)
	sess.SetKey(alice)

	aliceEnv, err := sess.Encrypt("alice's entry")
	require.NoError(t, err)

	sess.Clear()
	bob, err := DeriveKey("bob-password", "bob-salt")
	require.NoError(t, err)
	sess.SetKey(bob)

	_, err = sess.Decrypt(aliceEnv)
	assert.ErrorIs(t, err, ErrDecrypt)
}
