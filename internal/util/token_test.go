package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbannest/urbannest/dao/model"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := newTokenManager("test-secret", 1, 168)

	msg := JWTMessage{
		UserID: 42,
		Name:   "Asha Builder",
		Email:  "asha@example.com",
		Role:   model.RoleBuilder,
	}
	access, refresh, err := tm.CreateTokens(&msg)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	got, err := tm.CheckToken(access)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestCheckTokenRejectsWrongSecret(t *testing.T) {
	tm := newTokenManager("secret-a", 1, 168)
	other := newTokenManager("secret-b", 1, 168)

	access, _, err := tm.CreateTokens(&JWTMessage{UserID: 1})
	require.NoError(t, err)

	_, err = other.CheckToken(access)
	assert.Error(t, err)
}

func TestCheckTokenRejectsExpired(t *testing.T) {
	tm := newTokenManager("test-secret", -1, -1)

	access, _, err := tm.CreateTokens(&JWTMessage{UserID: 1})
	require.NoError(t, err)

	_, err = tm.CheckToken(access)
	assert.Error(t, err)
}

func TestCheckTokenRejectsGarbage(t *testing.T) {
	tm := newTokenManager("test-secret", 1, 168)
	_, err := tm.CheckToken("not.a.jwt")
	assert.Error(t, err)
}
