package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/domain"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/testutil"
)

func TestCreateAndGetByEmail(t *testing.T) {
	_, repo := testutil.SetupTestStore(t)
	ctx := context.Background()

	seeded := testutil.SeedUser(t, repo, "jo@b.com", "Jo", "12345678")
	assert.False(t, seeded.ID.IsZero())
	assert.False(t, seeded.CreatedAt.IsZero())

	// The plain read projects the hash out.
	u, err := repo.GetByEmail(ctx, "jo@b.com")
	require.NoError(t, err)
	assert.Equal(t, "jo@b.com", u.Email)
	assert.Empty(t, u.PasswordHash)

	// The login read is the only one that returns it.
	u, err = repo.GetByEmailWithPassword(ctx, "jo@b.com")
	require.NoError(t, err)
	assert.NotEmpty(t, u.PasswordHash)
}

func TestGetByEmailNotFound(t *testing.T) {
	_, repo := testutil.SetupTestStore(t)

	_, err := repo.GetByEmail(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUniqueEmailIndex(t *testing.T) {
	_, repo := testutil.SetupTestStore(t)
	ctx := context.Background()

	testutil.SeedUser(t, repo, "jo@b.com", "Jo", "12345678")

	dup := &domain.User{
		Email:        "jo@b.com",
		Name:         "Other Jo",
		PasswordHash: "x",
		UserType:     domain.UserTypeCustomer,
	}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "duplicate insert must not overwrite")
}

func TestEmailExists(t *testing.T) {
	_, repo := testutil.SetupTestStore(t)
	ctx := context.Background()

	testutil.SeedUser(t, repo, "jo@b.com", "Jo", "12345678")

	exists, err := repo.EmailExists(ctx, "jo@b.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(ctx, "nobody@b.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListRecent(t *testing.T) {
	_, repo := testutil.SetupTestStore(t)
	ctx := context.Background()

	for _, email := range []string{"first@b.com", "second@b.com", "third@b.com"} {
		testutil.SeedUser(t, repo, email, "User", "12345678")
		// created_at is stored with millisecond precision; keep the
		// timestamps strictly ordered.
		time.Sleep(5 * time.Millisecond)
	}

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	assert.Equal(t, "third@b.com", recent[0].Email, "newest first")
	assert.Equal(t, "second@b.com", recent[1].Email)
	for _, u := range recent {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestOperationsFailWhenDisconnected(t *testing.T) {
	mgr, repo := testutil.SetupTestStore(t)
	ctx := context.Background()

	require.NoError(t, mgr.Disconnect(ctx))

	_, err := repo.EmailExists(ctx, "jo@b.com")
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}
