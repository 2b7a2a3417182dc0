package jwt

import (
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, exp, err := svc.GenerateAccessToken(user.Principal{UserID: "u1", EmployeeID: "EMP001", Role: user.RoleManager})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, exp)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)

	p, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", p.EmployeeID)
	assert.Equal(t, user.RoleManager, p.Role)
}

func TestGenerateAccessToken_BadDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "forever")
	_, _, err := svc.GenerateAccessToken(user.Principal{Role: user.RoleEmployee})
	assert.Error(t, err)
}

func TestPrincipalFromClaims_Rejects(t *testing.T) {
	_, err := PrincipalFromClaims(map[string]interface{}{"role": "pending"})
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = PrincipalFromClaims(map[string]interface{}{"role": "owner", "type": "refresh"})
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
