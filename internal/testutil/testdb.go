package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"golang.org/x/crypto/bcrypt"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/domain"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/repository"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/store"
)

// StartMongo runs a throwaway MongoDB container and returns its endpoint.
func StartMongo(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("start mongodb container: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate mongodb container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}
	return strings.TrimSuffix(uri, "/") + "/boostweb_test"
}

// SetupTestStore connects a store manager to a fresh container and ensures
// the unique email index exists.
func SetupTestStore(t *testing.T) (*store.Manager, *repository.UserRepository) {
	t.Helper()
	ctx := context.Background()

	mgr := store.NewManager(store.Options{LocalURI: StartMongo(t)}, nil)
	if err := mgr.Connect(ctx); err != nil {
		t.Fatalf("connect store: %v", err)
	}
	t.Cleanup(func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mgr.Disconnect(disconnectCtx); err != nil {
			t.Logf("disconnect store: %v", err)
		}
	})

	repo := repository.NewUserRepository(mgr)
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return mgr, repo
}

// SeedUser inserts a user with a real bcrypt hash so login paths verify.
func SeedUser(t *testing.T, repo *repository.UserRepository, email, name, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	u := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		UserType:     domain.UserTypeCustomer,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}
