package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/auth"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/domain"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/service"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/testutil"
)

const testSecret = "integration-test-secret"

func TestRegisterLoginRoundTrip(t *testing.T) {
	_, repo := testutil.SetupTestStore(t)
	svc := service.NewAuthService(repo, testSecret, []string{"boss@shop.com"})
	ctx := context.Background()

	user, err := svc.Register(ctx, service.RegisterInput{
		Email:    "Jo@Shop.com",
		Name:     "Jo",
		Password: "12345678",
	})
	require.NoError(t, err)
	assert.Equal(t, "jo@shop.com", user.Email)
	assert.Equal(t, domain.UserTypeCustomer, user.UserType)

	result, err := svc.Login(ctx, "jo@shop.com", "12345678", true)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(result.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.UserTypeCustomer, claims.UserType)
}

func TestRegisterDuplicateAgainstUniqueIndex(t *testing.T) {
	_, repo := testutil.SetupTestStore(t)
	svc := service.NewAuthService(repo, testSecret, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, service.RegisterInput{Email: "A@B.com", Name: "Jo", Password: "12345678"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, service.RegisterInput{Email: "a@b.com", Name: "Flo", Password: "87654321"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAdminAllowListAgainstStore(t *testing.T) {
	_, repo := testutil.SetupTestStore(t)
	svc := service.NewAuthService(repo, testSecret, []string{"Boss@Shop.com"})
	ctx := context.Background()

	admin, err := svc.Register(ctx, service.RegisterInput{Email: "boss@shop.com", Name: "Boss", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserTypeAdmin, admin.UserType)

	stored, err := repo.GetByEmail(ctx, "boss@shop.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserTypeAdmin, stored.UserType)
	assert.Empty(t, stored.PasswordHash)
}
