package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	user "github.com/tradzyhq/tradzy-backend/internal/users"
	pkgauth "github.com/tradzyhq/tradzy-backend/pkg/auth"
	"github.com/tradzyhq/tradzy-backend/pkg/auth/session"
	"github.com/tradzyhq/tradzy-backend/pkg/config"
	"github.com/tradzyhq/tradzy-backend/pkg/db"
	"github.com/tradzyhq/tradzy-backend/pkg/db/models"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
	pkgerrors "github.com/tradzyhq/tradzy-backend/pkg/errors"
	"github.com/tradzyhq/tradzy-backend/pkg/security"
)

// Service exposes account registration and session lifecycle operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*user.UserDTO, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
	CheckAuth(ctx context.Context, accessID string, userID uuid.UUID) (*CheckAuthResult, error)
	CreateUser(ctx context.Context, input RegisterInput) (*user.UserDTO, error)
}

// RegisterInput holds the validated payload to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     enums.Role
	Company  *string
}

// LoginInput accepts a username or email as the identifier.
type LoginInput struct {
	Identifier string
	Password   string
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Params collects the service dependencies.
type Params struct {
	Users       *user.Repository
	Sessions    sessionManager
	JWT         config.JWTConfig
	Password    config.PasswordConfig
}

type service struct {
	users    *user.Repository
	sessions sessionManager
	jwt      config.JWTConfig
	password config.PasswordConfig
}

// NewService constructs the auth service.
func NewService(p Params) (Service, error) {
	if p.Users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if p.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if p.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt config required")
	}
	return &service{
		users:    p.Users,
		sessions: p.Sessions,
		jwt:      p.JWT,
		password: p.Password,
	}, nil
}

// Register creates an account with any of the marketplace roles.
func (s *service) Register(ctx context.Context, input RegisterInput) (*user.UserDTO, error) {
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", input.Role))
	}
	return s.createAccount(ctx, input)
}

// CreateUser provisions an account on behalf of an authenticated caller.
// The route mounts it behind the auth middleware; any signed-in user may
// call it.
func (s *service) CreateUser(ctx context.Context, input RegisterInput) (*user.UserDTO, error) {
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", input.Role))
	}
	return s.createAccount(ctx, input)
}

func (s *service) createAccount(ctx context.Context, input RegisterInput) (*user.UserDTO, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	created, err := s.users.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Company:      input.Company,
	})
	if err != nil {
		switch {
		case db.IsUniqueViolation(err, "username"):
			return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "username already exists")
		case db.IsUniqueViolation(err, "email"):
			return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "email already exists")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
		}
	}
	return user.ToDTO(created), nil
}

// Login verifies credentials and opens a session. Unknown identifiers and
// wrong passwords produce the same opaque error.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	account, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up user")
	}
	if account == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(input.Password, account.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(s.jwt, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:   account.ID,
		Username: account.Username,
		Role:     account.Role,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening session")
	}

	return &LoginResult{
		AccessToken:  token,
		RefreshToken: refresh,
		RedirectURL:  RedirectFor(account.Role),
		User:         user.ToDTO(account),
	}, nil
}

// Logout revokes the session tied to the access token.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

// CheckAuth re-reads the account behind an authenticated request. When the
// account has been deleted the stale session is revoked on the spot.
func (s *service) CheckAuth(ctx context.Context, accessID string, userID uuid.UUID) (*CheckAuthResult, error) {
	account, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up user")
	}
	if account == nil {
		// token outlived the account
		_ = s.sessions.Revoke(ctx, accessID)
		return &CheckAuthResult{Authenticated: false}, nil
	}
	return &CheckAuthResult{
		Authenticated: true,
		User:          user.ToDTO(account),
	}, nil
}
