package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/domain"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/store"
)

const usersCollection = "users"

// withoutPassword keeps the hash out of every read except the login lookup.
var withoutPassword = bson.D{{Key: "password", Value: 0}}

type UserRepository struct {
	store *store.Manager
}

func NewUserRepository(s *store.Manager) *UserRepository {
	return &UserRepository{store: s}
}

func (r *UserRepository) collection() (*mongo.Collection, error) {
	db, err := r.store.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(usersCollection), nil
}

// EnsureIndexes creates the unique email index. The index is the
// authoritative duplicate-registration guard; the service-level pre-check is
// only a fast path.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	col, err := r.collection()
	if err != nil {
		return fmt.Errorf("EnsureIndexes: %w", err)
	}

	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("EnsureIndexes: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	col, err := r.collection()
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	res, err := col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("Create: %w", domain.ErrDuplicateEmail)
		}
		return fmt.Errorf("Create: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email, options.FindOne().SetProjection(withoutPassword))
}

// GetByEmailWithPassword is the login lookup; it is the only read that
// returns the stored hash.
func (r *UserRepository) GetByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *UserRepository) findByEmail(ctx context.Context, email string, opts ...*options.FindOneOptions) (*domain.User, error) {
	col, err := r.collection()
	if err != nil {
		return nil, fmt.Errorf("findByEmail: %w", err)
	}

	var u domain.User
	err = col.FindOne(ctx, bson.D{{Key: "email", Value: email}}, opts...).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("findByEmail: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("findByEmail: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	col, err := r.collection()
	if err != nil {
		return false, fmt.Errorf("EmailExists: %w", err)
	}

	n, err := col.CountDocuments(ctx, bson.D{{Key: "email", Value: email}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("EmailExists: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	col, err := r.collection()
	if err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}

	n, err := col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

// ListRecent returns the newest users first, hash excluded, for the status
// endpoint's admin listing.
func (r *UserRepository) ListRecent(ctx context.Context, limit int64) ([]domain.User, error) {
	col, err := r.collection()
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}

	opts := options.Find().
		SetProjection(withoutPassword).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	defer cur.Close(ctx)

	var users []domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	return users, nil
}
