package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/auth"
	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/domain"
)

// bcryptCost matches the 10-round hashing the credential store has always
// used; existing hashes verify regardless.
const bcryptCost = 10

const (
	minPasswordLen = 8
	minNameLen     = 2
	maxNameLen     = 50
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type userRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmailWithPassword(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type AuthService struct {
	users       userRepository
	jwtSecret   string
	adminEmails map[string]struct{}
}

func NewAuthService(users userRepository, jwtSecret string, adminEmails []string) *AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = NormalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &AuthService{
		users:       users,
		jwtSecret:   jwtSecret,
		adminEmails: admins,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, domain.NewValidationError("email", "required")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("CheckEmailExists: %w", err)
	}
	return exists, nil
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Address  *string
}

func (in RegisterInput) validate() error {
	switch {
	case strings.TrimSpace(in.Email) == "":
		return domain.NewValidationError("email", "required")
	case strings.TrimSpace(in.Name) == "":
		return domain.NewValidationError("name", "required")
	case in.Password == "":
		return domain.NewValidationError("password", "required")
	}

	if !emailPattern.MatchString(NormalizeEmail(in.Email)) {
		return domain.NewValidationError("email", "invalid format")
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(in.Name)); n < minNameLen || n > maxNameLen {
		return domain.NewValidationError("name", "must be 2 to 50 characters")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return domain.NewValidationError("password", "must be at least 8 characters")
	}
	return nil
}

// Register validates and persists a new credential record. The duplicate
// pre-check here is advisory; the unique index rejects whichever concurrent
// insert loses, and that rejection surfaces as ErrDuplicateEmail too.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.PublicUser, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(in.Email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("Register: hash password: %w", err)
	}

	u := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hash),
		UserType:     s.userTypeFor(email),
		Address:      trimAddress(in.Address),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	pub := u.Public()
	return &pub, nil
}

type LoginResult struct {
	Token string
	User  domain.PublicUser
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string, rememberMe bool) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.NewValidationError("credentials", "email and password required")
	}

	u, err := s.users.GetByEmailWithPassword(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(u.ID.Hex(), u.Email, u.UserType, s.jwtSecret, auth.TokenTTL(rememberMe))
	if err != nil {
		return nil, fmt.Errorf("Login: %w", err)
	}

	return &LoginResult{Token: token, User: u.Public()}, nil
}

func (s *AuthService) userTypeFor(email string) domain.UserType {
	if _, ok := s.adminEmails[email]; ok {
		return domain.UserTypeAdmin
	}
	return domain.UserTypeCustomer
}

func trimAddress(addr *string) *string {
	if addr == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*addr)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
