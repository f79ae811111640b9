package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/domain"
)

const testSecret = "test-jwt-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("68b1c2d3e4f5a6b7c8d9e0f1", "user@test.com", domain.UserTypeAdmin, testSecret, SessionTTL)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "68b1c2d3e4f5a6b7c8d9e0f1", claims.UserID)
	assert.Equal(t, "user@test.com", claims.Email)
	assert.Equal(t, domain.UserTypeAdmin, claims.UserType)
}

func TestTokenTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, TokenTTL(false))
	assert.Equal(t, 30*24*time.Hour, TokenTTL(true))
}

func TestTokenExpiryFollowsRememberMe(t *testing.T) {
	for _, rememberMe := range []bool{false, true} {
		token, err := GenerateToken("user-1", "user@test.com", domain.UserTypeCustomer, testSecret, TokenTTL(rememberMe))
		require.NoError(t, err)

		var tc tokenClaims
		_, err = jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)

		wantExpiry := time.Now().Add(TokenTTL(rememberMe))
		assert.WithinDuration(t, wantExpiry, tc.ExpiresAt.Time, time.Minute,
			"rememberMe=%v", rememberMe)
	}
}

func TestValidateToken(t *testing.T) {
	validToken, err := GenerateToken("user-1", "user@test.com", domain.UserTypeCustomer, testSecret, SessionTTL)
	require.NoError(t, err)

	expiredToken, err := GenerateToken("user-1", "user@test.com", domain.UserTypeCustomer, testSecret, -1*time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		secret    string
		wantErrIs error
	}{
		{
			name:      "expired token",
			token:     expiredToken,
			secret:    testSecret,
			wantErrIs: jwt.ErrTokenExpired,
		},
		{
			name:      "wrong secret",
			token:     validToken,
			secret:    "wrong-secret",
			wantErrIs: jwt.ErrTokenSignatureInvalid,
		},
		{
			name:      "malformed token",
			token:     "not.a.valid.jwt",
			secret:    testSecret,
			wantErrIs: jwt.ErrTokenMalformed,
		},
		{
			name:      "empty token",
			token:     "",
			secret:    testSecret,
			wantErrIs: jwt.ErrTokenMalformed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateToken(tc.token, tc.secret)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErrIs)
		})
	}
}

func TestValidateToken_RejectsNonHMAC(t *testing.T) {
	// Algorithm confusion: a token signed with "none" should be rejected
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: "user-1",
		Email:  "user@test.com",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(signed, testSecret)
	require.Error(t, err)
}
