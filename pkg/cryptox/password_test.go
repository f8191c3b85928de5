package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"unicode password", "паролЬ密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// Verify PHC format
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)
	require.NotEqual(t, a, b, "same password should hash differently due to random salt")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	t.Run("accepts the right password", func(t *testing.T) {
		require.NoError(t, VerifyPassword("correct horse battery staple", hash))
	})

	t.Run("rejects the wrong password", func(t *testing.T) {
		require.ErrorIs(t, VerifyPassword("incorrect horse", hash), ErrPasswordMismatch)
	})

	t.Run("rejects malformed hashes", func(t *testing.T) {
		for _, bad := range []string{
			"",
			"$argon2id$v=19$m=19456,t=2,p=1$onlyfourparts",
			"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
		} {
			err := VerifyPassword("whatever", bad)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrPasswordMismatch)
		}
	})
}
