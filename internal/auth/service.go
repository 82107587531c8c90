package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffdeck/directory-api/internal/auth/entity"
	"github.com/staffdeck/directory-api/pkg/utilities"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrUserNotFound   = errors.New("user not found")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrInvalidToken   = errors.New("invalid token")
)

// Store is the persistence abstraction for users.
type Store interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}

// Config carries the token and hashing knobs, read from env.
type Config struct {
	Secret       string
	TokenTTL     time.Duration
	BcryptRounds int
}

// ConfigFromEnv reads JWT_SECRET (required), JWT_EXPIRES_IN (Go duration,
// default 24h) and BCRYPT_ROUNDS (default 12).
func ConfigFromEnv() (Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	ttl := 24 * time.Hour
	if raw := os.Getenv("JWT_EXPIRES_IN"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse JWT_EXPIRES_IN: %w", err)
		}
		ttl = d
	}
	rounds := 12
	if raw := os.Getenv("BCRYPT_ROUNDS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse BCRYPT_ROUNDS: %w", err)
		}
		rounds = n
	}
	return Config{Secret: secret, TokenTTL: ttl, BcryptRounds: rounds}, nil
}

// Service handles registration, password login and token verification.
type Service struct {
	store  Store
	logger *zap.SugaredLogger
	cfg    Config

	now   func() time.Time
	newID func() string
}

func NewService(store Store, logger *zap.SugaredLogger, cfg Config) *Service {
	return &Service{
		store:  store,
		logger: logger,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  utilities.NewKSUID,
	}
}

// TokenResult is the login/register response payload.
type TokenResult struct {
	AccessToken string       `json:"accessToken"`
	User        *entity.User `json:"user"`
}

// Register creates a self-service account and returns a signed token.
func (s *Service) Register(ctx context.Context, email, firstName, lastName, password string) (*TokenResult, error) {
	u, err := s.CreateUser(ctx, email, firstName, lastName, password, "user")
	if err != nil {
		return nil, err
	}
	token, err := s.issueToken(u)
	if err != nil {
		return nil, err
	}
	return &TokenResult{AccessToken: token, User: u}, nil
}

// CreateUser provisions an account, used both by self-registration and by
// admin user management. An empty role defaults to "user". Existing email is
// a fast-path check; the unique constraint backstops it.
func (s *Service) CreateUser(ctx context.Context, email, firstName, lastName, password, role string) (*entity.User, error) {
	if role == "" {
		role = "user"
	}
	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptRounds)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &entity.User{
		ID:           s.newID(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Infow("created user", "id", u.ID, "role", u.Role)
	return u, nil
}

// Login authenticates by email and password. Unknown email, wrong password
// and deactivated accounts all report the same ErrBadCredentials to avoid
// account enumeration.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, err
	}
	return &TokenResult{AccessToken: token, User: u}, nil
}

func (s *Service) issueToken(u *entity.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.TokenTTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(s.cfg.Secret))
}

// ParseToken validates a bearer token and returns its claims.
func (s *Service) ParseToken(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CurrentUser resolves the subject claim against the store.
func (s *Service) CurrentUser(ctx context.Context, claims jwt.MapClaims) (*entity.User, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	return s.store.GetByID(ctx, sub)
}

// ListUsers returns all accounts newest-first.
func (s *Service) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.store.List(ctx)
}

// GetUser fetches one account by id.
func (s *Service) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateUserInput is the partial request shape for updating an account. Nil
// pointers mean "leave unchanged".
type UpdateUserInput struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"isActive"`
}

// UpdateUser merges the partial input into the stored account. A new
// password is rehashed; an email change is checked against other accounts
// before the constraint backstop.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		if !strings.EqualFold(*in.Email, u.Email) {
			other, err := s.store.GetByEmail(ctx, *in.Email)
			if err != nil && !errors.Is(err, ErrUserNotFound) {
				return nil, err
			}
			if other != nil && other.ID != u.ID {
				return nil, ErrEmailTaken
			}
		}
		u.Email = *in.Email
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.cfg.BcryptRounds)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}

	u.UpdatedAt = s.now()
	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Infow("updated user", "id", u.ID)
	return u, nil
}

// DeleteUser hard-deletes an account by id.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("deleted user", "id", id)
	return nil
}
