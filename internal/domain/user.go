package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeAdmin    UserType = "admin"
	UserTypeSeller   UserType = "seller"
)

// User is the credential record persisted in the users collection. The
// password hash is stored under the "password" field and is projected out of
// every read except the login lookup; it never carries a json tag.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name"`
	PasswordHash string             `bson:"password,omitempty"`
	UserType     UserType           `bson:"user_type"`
	Address      *string            `bson:"address"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// PublicUser is the API-safe projection of a User.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	UserType  UserType  `json:"userType"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		Name:      u.Name,
		UserType:  u.UserType,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
}
