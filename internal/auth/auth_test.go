package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassphraseHasher(t *testing.T) {
	h := NewPassphraseHasher()

	encoded, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, IsHashed(encoded))

	ok, err := h.Verify("correct horse", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("battery staple", encoded)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, again, "salts differ")
}

func TestVerifyRejectsForeignValues(t *testing.T) {
	h := NewPassphraseHasher()

	for _, encoded := range []string{"", "plaintext", "$2a$10$abcdefghijklmnopqrstuv", "$argon2id$v=19$m=x,t=1,p=4$c2FsdA$aGFzaA"} {
		_, err := h.Verify("anything", encoded)
		assert.True(t, errors.Is(err, ErrInvalidHash), "value %q", encoded)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.Generate(Identity{ID: "U1", Email: "u1@acme.test"})
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "U1", Email: "u1@acme.test"}, claims.Identity())
	assert.Equal(t, "U1", claims.Subject)
}

func TestTokenRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	_, err := tm.Generate(Identity{})
	assert.Error(t, err)

	other, err := NewTokenManager("other", time.Hour).Generate(Identity{ID: "U1"})
	require.NoError(t, err)
	_, err = tm.Validate(other)
	assert.Error(t, err)

	expired, err := NewTokenManager("secret", -time.Minute).Generate(Identity{ID: "U1"})
	require.NoError(t, err)
	_, err = tm.Validate(expired)
	assert.Error(t, err)
}

func TestSession(t *testing.T) {
	_, ok := CurrentUser(context.Background())
	assert.False(t, ok)

	_, ok = CurrentUser(WithUser(context.Background(), Identity{}))
	assert.False(t, ok, "an identity without id is no session")

	id, ok := CurrentUser(WithUser(context.Background(), Identity{ID: "U1", Email: "Jo@Acme.TEST"}))
	require.True(t, ok)
	assert.Equal(t, "acme.test", id.EmailDomain())
	assert.Empty(t, Identity{Email: "nobody@"}.EmailDomain())
}
