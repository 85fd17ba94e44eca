package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	d := NewDirectory()

	u, err := d.Authenticate("admin", "admin123")
	require.NoError(t, err)
	require.Equal(t, "Krish", u.Name)
	require.Equal(t, RoleAdmin, u.Role)

	u, err = d.Authenticate("staff2", "staff456")
	require.NoError(t, err)
	require.Equal(t, RoleStaff, u.Role)
}

func TestAuthenticateRejectsBadPairs(t *testing.T) {
	d := NewDirectory()
	cases := [][2]string{
		{"admin", "wrong"},
		{"ghost", "admin123"},
		{"", ""},
	}
	for _, c := range cases {
		_, err := d.Authenticate(c[0], c[1])
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
}
