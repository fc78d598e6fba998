package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	token, err := Generate("secreto", "u1", RoleContable, "sistemita", 5)
	require.NoError(t, err)

	claims, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, RoleContable, claims.Role)
	assert.Equal(t, "sistemita", claims.Issuer)
}

func TestParse_Errores(t *testing.T) {
	token, err := Generate("secreto", "u1", RoleAdmin, "sistemita", 5)
	require.NoError(t, err)

	_, err = Parse("otro", token)
	assert.Error(t, err)

	expired, err := Generate("secreto", "u1", RoleAdmin, "sistemita", -1)
	require.NoError(t, err)
	_, err = Parse("secreto", expired)
	assert.Error(t, err)

	_, err = Parse("", token)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = Generate("", "u1", RoleAdmin, "sistemita", 5)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
