// Package auth implements registration, login and session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/homebase/internal/errutil"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/store"
)

// UserRepository is the subset of user storage the service needs.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// HouseholdRepository is the subset of household storage the service needs.
type HouseholdRepository interface {
	GetByID(ctx context.Context, id string) (*model.Household, error)
	CreateWithAdmin(ctx context.Context, name, currency string, admin store.NewAdmin) (*model.Household, *model.User, error)
}

// Service is the credential service.
type Service struct {
	users      UserRepository
	households HouseholdRepository
	hasher     PasswordHasher
	tokens     *Tokens
	logger     *slog.Logger

	// dummyHash is verified against when the email is unknown so that a
	// failed lookup costs as much as a wrong password.
	dummyHash string
}

// NewService creates a Service. All dependencies are required.
func NewService(users UserRepository, households HouseholdRepository, hasher PasswordHasher, tokens *Tokens, logger *slog.Logger) (*Service, error) {
	switch {
	case users == nil:
		return nil, oops.Errorf("users repository is required")
	case households == nil:
		return nil, oops.Errorf("households repository is required")
	case hasher == nil:
		return nil, oops.Errorf("password hasher is required")
	case tokens == nil:
		return nil, oops.Errorf("token issuer is required")
	case logger == nil:
		return nil, oops.Errorf("logger is required")
	}

	dummy, err := hasher.Hash("homebase-unknown-account")
	if err != nil {
		return nil, oops.With("operation", "hash dummy password").Wrap(err)
	}

	return &Service{
		users:      users,
		households: households,
		hasher:     hasher,
		tokens:     tokens,
		logger:     logger,
		dummyHash:  dummy,
	}, nil
}

// RegisterInput is the registration request. HouseholdName is optional.
type RegisterInput struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	HouseholdName string
}

// Session is a freshly issued token with the profile it belongs to.
type Session struct {
	Token string        `json:"token"`
	User  model.Profile `json:"user"`
}

func errInvalidCredentials() error {
	return oops.Code(errutil.CodeAuthentication).Errorf("Invalid email or password")
}

// Register creates a household and its admin user and issues a token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := strings.TrimSpace(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if email == "" || in.Password == "" || firstName == "" || lastName == "" {
		return nil, oops.Code(errutil.CodeValidation).
			Errorf("Email, password, firstName, and lastName are required")
	}

	householdName := strings.TrimSpace(in.HouseholdName)
	if householdName == "" {
		householdName = fmt.Sprintf("%s's Household", firstName)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, oops.Code(errutil.CodeInternal).
			With("operation", "lookup email").
			Wrap(err)
	}
	if existing != nil {
		return nil, oops.Code(errutil.CodeConflict).Errorf("User with this email already exists")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, oops.Code(errutil.CodeValidation).Errorf("Password must be at most 72 bytes")
		}
		return nil, oops.Code(errutil.CodeInternal).
			With("operation", "hash password").
			Wrap(err)
	}

	household, user, err := s.households.CreateWithAdmin(ctx, householdName, model.DefaultCurrency, store.NewAdmin{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			// Lost a race with a concurrent registration.
			return nil, oops.Code(errutil.CodeConflict).Errorf("User with this email already exists")
		}
		return nil, oops.Code(errutil.CodeInternal).
			With("operation", "create household and user").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "household_id", household.ID)
	return s.issue(user, household)
}

// Login verifies the credentials and issues a token. Unknown emails and
// wrong passwords fail with the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, oops.Code(errutil.CodeValidation).Errorf("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, oops.Code(errutil.CodeInternal).
			With("operation", "lookup email").
			Wrap(err)
	}

	target := s.dummyHash
	if user != nil {
		target = user.PasswordHash
	}

	valid, err := s.hasher.Verify(password, target)
	if err != nil {
		s.logger.WarnContext(ctx, "stored password hash is unusable", "user_id", userIDOf(user), "error", err)
		valid = false
	}
	if user == nil || !valid {
		return nil, errInvalidCredentials()
	}

	household, err := s.households.GetByID(ctx, user.HouseholdID)
	if err != nil {
		return nil, oops.Code(errutil.CodeInternal).
			With("operation", "get household").
			With("household_id", user.HouseholdID).
			Wrap(err)
	}
	if household == nil {
		return nil, oops.Code(errutil.CodeInternal).
			With("household_id", user.HouseholdID).
			Errorf("household of user %s is missing", user.ID)
	}

	return s.issue(user, household)
}

// CurrentUser verifies token and returns the profile of the user it names.
func (s *Service) CurrentUser(ctx context.Context, token string) (*model.Profile, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, id.UserID)
}

// Profile loads the user and household projection for userID. It fails with
// NOT_FOUND when the user no longer exists.
func (s *Service) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, oops.Code(errutil.CodeInternal).
			With("operation", "get user").
			With("user_id", userID).
			Wrap(err)
	}
	if user == nil {
		return nil, oops.Code(errutil.CodeNotFound).Errorf("User not found")
	}

	household, err := s.households.GetByID(ctx, user.HouseholdID)
	if err != nil {
		return nil, oops.Code(errutil.CodeInternal).
			With("operation", "get household").
			With("household_id", user.HouseholdID).
			Wrap(err)
	}
	if household == nil {
		return nil, oops.Code(errutil.CodeNotFound).Errorf("User not found")
	}

	p := model.NewProfile(user, household)
	return &p, nil
}

// Tokens returns the token issuer, for the session middleware.
func (s *Service) Tokens() *Tokens {
	return s.tokens
}

func (s *Service) issue(user *model.User, household *model.Household) (*Session, error) {
	token, err := s.tokens.Issue(Identity{UserID: user.ID, HouseholdID: household.ID})
	if err != nil {
		return nil, oops.Code(errutil.CodeInternal).
			With("operation", "issue token").
			Wrap(err)
	}
	return &Session{Token: token, User: model.NewProfile(user, household)}, nil
}

func userIDOf(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
