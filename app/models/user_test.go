package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserTrimsAndHashes(t *testing.T) {
	u, err := NewUser("  a@x.com ", " pw1 ")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", u.Email)
	assert.False(t, u.Subscribed)
	assert.NotEqual(t, "pw1", u.Password)
	assert.True(t, u.CheckPassword("pw1"))
	assert.False(t, u.CheckPassword("pw2"))
	assert.False(t, u.CheckPassword(""))
}

func TestNewUserRejectsEmptyFields(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "pw"},
		{name: "blank email", email: "   ", password: "pw"},
		{name: "empty password", email: "a@x.com", password: ""},
		{name: "blank password", email: "a@x.com", password: "\t "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := NewUser(tc.email, tc.password)
			require.Error(t, err)
			assert.Nil(t, u)

			var verrs validator.ValidationErrors
			assert.True(t, errors.As(err, &verrs))
		})
	}
}

func TestNewUserRejectsOversizedEmail(t *testing.T) {
	_, err := NewUser(strings.Repeat("a", 151), "pw")
	require.Error(t, err)
}

func TestNewUserPasswordLimitCountsBytes(t *testing.T) {
	// 40 runes, 80 bytes.
	_, err := NewUser("a@x.com", strings.Repeat("é", 40))
	require.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = NewUser("a@x.com", strings.Repeat("a", MaxPasswordBytes+1))
	require.ErrorIs(t, err, ErrPasswordTooLong)

	u, err := NewUser("a@x.com", strings.Repeat("é", 36))
	require.NoError(t, err)
	assert.True(t, u.CheckPassword(strings.Repeat("é", 36)))
}
