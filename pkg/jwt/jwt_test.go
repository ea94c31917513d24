package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-api/internal/domain"
	pkgjwt "github.com/jhoicas/obras-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
)

func opts(exp int) pkgjwt.Options {
	return pkgjwt.Options{Secret: testSecret, Issuer: "obras-api-test", ExpMinutes: exp}
}

func TestGenerateAndParse_ConProyectos(t *testing.T) {
	tok, exp, err := pkgjwt.Generate(opts(60), testUserID, "foreman", []string{"p1", "p2"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.False(t, exp.IsZero())

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, "foreman", claims.Role)
	assert.Equal(t, []string{"p1", "p2"}, claims.Projects)
}

func TestParse_TokenExpirado_DevuelveClaims(t *testing.T) {
	tok, _, err := pkgjwt.Generate(opts(-1), testUserID, "admin", nil)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	assert.ErrorIs(t, err, domain.ErrTokenExpired, "token expirado debe distinguirse")
	require.NotNil(t, claims, "los claims permiten identificar al usuario")
	assert.Equal(t, testUserID, claims.UserID)
}

func TestParse_SecretIncorrecto_EsInvalido(t *testing.T) {
	tok, _, err := pkgjwt.Generate(opts(60), testUserID, "admin", nil)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestParse_Malformado_EsInvalido(t *testing.T) {
	_, err := pkgjwt.Parse(testSecret, "token.invalido.aqui")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestParse_SinRol_EsInvalido(t *testing.T) {
	tok, _, err := pkgjwt.Generate(opts(60), testUserID, "", nil)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
