package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing-api/internal/models"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", 15*time.Minute)

	token, issued, err := issuer.Issue(42, models.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	id, err := claims.CustomerID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := issuer.Issue(1, models.RoleUser)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.True(t, errors.Is(err, models.ErrUnauthenticated))
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewIssuer("secret", time.Minute).Issue(1, models.RoleUser)
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Minute).Parse(token)
	assert.True(t, errors.Is(err, models.ErrUnauthenticated))
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Minute).Parse(token)
	assert.True(t, errors.Is(err, models.ErrUnauthenticated))
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)

	_, err := issuer.Parse("")
	assert.True(t, errors.Is(err, models.ErrUnauthenticated))

	_, err = issuer.Parse("not.a.token")
	assert.True(t, errors.Is(err, models.ErrUnauthenticated))
}

func TestExtractTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, err := ExtractTokenFromRequest(r)
	assert.True(t, errors.Is(err, models.ErrUnauthenticated))

	r.Header.Set("Authorization", "Token abc")
	_, err = ExtractTokenFromRequest(r)
	assert.True(t, errors.Is(err, models.ErrUnauthenticated))

	r.Header.Set("Authorization", "Bearer abc")
	token, err := ExtractTokenFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
	assert.False(t, CheckPassword("", "hunter2"))
}
