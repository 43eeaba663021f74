package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Stockeando-api/pkg/jwt"
)

const secret = "clave-de-prueba"

func TestGenerateAndParse_ConservaUsuarioYRol(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "ana", "operario", "stockeando-test", 60)
	require.NoError(t, err)

	username, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "ana", username)
	assert.Equal(t, "operario", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "ana", "admin", "stockeando-test", 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otra-clave", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "ana", "admin", "stockeando-test", -5)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "ana", "admin", "x", 60)
	assert.Error(t, err)
}
