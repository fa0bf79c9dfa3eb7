package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"groundwater-backend/internal/shared/auth"
	"groundwater-backend/internal/shared/telemetry"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
	minNameLen     = 2
	maxNameLen     = 100
)

// Session is what a successful login or registration hands back to the client.
type Session struct {
	Token     string  `json:"token"`
	User      Profile `json:"user"`
	ExpiresIn string  `json:"expiresIn"`
}

type Service struct {
	Repo Repo
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// ValidateCredentials checks the username and password shape shared by login
// and registration.
func ValidateCredentials(username, password string) error {
	n := utf8.RuneCountInString(username)
	switch {
	case username == "":
		return fmt.Errorf("%w: username is required", ErrValidation)
	case n < minUsernameLen || n > maxUsernameLen:
		return fmt.Errorf("%w: Username must be 3-50 characters", ErrValidation)
	case !usernamePattern.MatchString(username):
		return fmt.Errorf("%w: Username contains invalid characters", ErrValidation)
	case password == "":
		return fmt.Errorf("%w: password is required", ErrValidation)
	case utf8.RuneCountInString(password) < minPasswordLen:
		return fmt.Errorf("%w: Password must be at least 6 characters", ErrValidation)
	}
	return nil
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < minNameLen || n > maxNameLen {
		return fmt.Errorf("%w: Name must be 2-100 characters", ErrValidation)
	}
	return nil
}

// Register creates a user-role account and signs a token for it.
func (s *Service) Register(ctx context.Context, username, password, name string) (Session, error) {
	if s == nil || s.Repo == nil {
		return Session{}, errors.New("users service not configured")
	}
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	if err := ValidateCredentials(username, password); err != nil {
		return Session{}, err
	}
	if err := validateName(name); err != nil {
		return Session{}, err
	}
	user, err := s.create(ctx, username, password, name, auth.RoleUser)
	if err != nil {
		return Session{}, err
	}
	return s.session(user)
}

// Login checks the password and signs a token. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	if s == nil || s.Repo == nil {
		return Session{}, errors.New("users service not configured")
	}
	username = strings.TrimSpace(username)
	if err := ValidateCredentials(username, password); err != nil {
		return Session{}, err
	}
	user, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

type seedAccount struct {
	username, password, name string
	role                     auth.Role
}

var demoAccounts = []seedAccount{
	{"admin", "admin123", "System Administrator", auth.RoleAdmin},
	{"analyst", "analyst123", "Data Analyst", auth.RoleAnalyst},
	{"demo", "demo123", "Demo User", auth.RoleUser},
}

// SeedDemoUsers creates the demo accounts that do not exist yet.
func (s *Service) SeedDemoUsers(ctx context.Context) error {
	for _, acct := range demoAccounts {
		_, err := s.create(ctx, acct.username, acct.password, acct.name, acct.role)
		switch {
		case err == nil:
			telemetry.Info("users.seeded", map[string]any{"username": acct.username, "role": string(acct.role)})
		case errors.Is(err, ErrUsernameTaken):
		default:
			return fmt.Errorf("seed %s: %w", acct.username, err)
		}
	}
	return nil
}

func (s *Service) create(ctx context.Context, username, password, name string, role auth.Role) (User, error) {
	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) session(user User) (Session, error) {
	token, err := auth.SignJWT(auth.Claims{
		Sub:      user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	})
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: token, User: user.Profile(), ExpiresIn: fmt.Sprintf("%dh", int(auth.TokenTTL.Hours()))}, nil
}
