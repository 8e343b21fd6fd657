// Package services contains the account workflows: registration, login and
// the user directory. UserService is built once at startup and shared by
// all requests.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vaughan-dsouza/authapi/internal/common"
	"github.com/vaughan-dsouza/authapi/internal/logging"
	"github.com/vaughan-dsouza/authapi/internal/models"
)

// UserStore is the credential store used by the workflows.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type TokenIssuer interface {
	Issue(userID int64, role, email string, now time.Time) (string, time.Time, error)
}

// Events receives workflow outcomes for metrics.
type Events interface {
	Registered()
	RegistrationRejected(reason string)
	LoggedIn()
	LoginRejected(reason string)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token     string
	Role      models.Role
	ExpiresAt time.Time
}

type UserService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	events Events
	logger logging.Logger
	now    func() time.Time
}

type Option func(*UserService)

// WithClock overrides time.Now for token issuance and created_at.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) { s.now = now }
}

func WithEvents(e Events) Option {
	return func(s *UserService) { s.events = e }
}

func NewUserService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, logger logging.Logger, opts ...Option) *UserService {
	s := &UserService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: nopEvents{},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input, creates the user and returns the stored
// record. On any error nothing is written.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := NormalizeEmail(in.Email)
	role := models.Role(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.DefaultRole
	}

	if username == "" || email == "" || in.Password == "" {
		s.events.RegistrationRejected("validation")
		return nil, common.NewValidationError("username, email, and password are required")
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.events.RegistrationRejected("conflict")
		return nil, common.ErrEmailTaken
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			s.events.RegistrationRejected("validation")
		}
		return nil, err
	}

	u, err := s.users.Create(ctx, &models.User{
		Username:  username,
		Email:     email,
		Password:  hash,
		Role:      role,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			s.events.RegistrationRejected("conflict")
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.events.Registered()
	s.logger.Info(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Login checks the credentials and issues a token. An unknown email and a
// wrong password both return common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		s.events.LoginRejected("validation")
		return nil, common.NewValidationError("email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.events.LoginRejected("invalid_credentials")
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(in.Password, u.Password) {
		s.events.LoginRejected("invalid_credentials")
		s.logger.Warn(ctx, "login rejected", "user_id", u.ID)
		return nil, common.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(u.ID, string(u.Role), u.Email, s.now())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.events.LoggedIn()
	s.logger.Info(ctx, "user logged in", "user_id", u.ID, "expires_at", exp)
	return &LoginResult{Token: token, Role: u.Role, ExpiresAt: exp}, nil
}

// ListUsers returns every user in ascending id order. Callers gate it on a
// valid token; the token's claims do not filter the result.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

type nopEvents struct{}

func (nopEvents) Registered()                 {}
func (nopEvents) RegistrationRejected(string) {}
func (nopEvents) LoggedIn()                   {}
func (nopEvents) LoginRejected(string)        {}
