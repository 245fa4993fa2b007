package encrypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("Sup3rSecret!"))

	assert.Error(t, ValidatePasswordStrength("Sh0rt!"))
	assert.Error(t, ValidatePasswordStrength("noupper3case!"))
	assert.Error(t, ValidatePasswordStrength("NoDigitsHere!"))

	err := ValidatePasswordStrength("MissingSpecial3")
	require.Error(t, err)
	assert.Equal(t, "password must contain at least one special character (!@#$%^&*)", err.Error())
}

func TestHashPassword_RejectsWeak(t *testing.T) {
	_, err := HashPassword("weak")
	assert.Error(t, err)
}

func TestHashPassword_MatchesOriginal(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret!")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret!", hash)
	assert.NoError(t, CheckPassword(hash, "Sup3rSecret!"))
	assert.ErrorIs(t, CheckPassword(hash, "Wr0ngSecret!"), ErrPasswordMismatch)
}
