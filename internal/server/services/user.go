// Package services contains server-side business logic. UserService handles
// registration and login: password hashing, credential checks and session
// token issuance.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/dmitrijs2005/taskdesk/internal/server/auth"
	"github.com/dmitrijs2005/taskdesk/internal/server/models"
	"github.com/dmitrijs2005/taskdesk/internal/server/repositories/users"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token string
	Email string
	Name  string
}

// UserService is stateless apart from its collaborators: the credential
// store and the token manager holding the signing secret.
type UserService struct {
	repo       users.Repository
	tokens     *auth.TokenManager
	bcryptCost int
	dummyHash  []byte
	now        func() time.Time
}

// NewUserService constructs a UserService. bcryptCost must lie within
// bcrypt.MinCost..bcrypt.MaxCost.
func NewUserService(repo users.Repository, tokens *auth.TokenManager, bcryptCost int) (*UserService, error) {
	// compared against on unknown emails so both failure paths pay one bcrypt check
	dummy, err := bcrypt.GenerateFromPassword([]byte("taskdesk-dummy-password"), bcryptCost)
	if err != nil {
		return nil, err
	}

	return &UserService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
		now:        time.Now,
	}, nil
}

// NormalizeEmail is the canonical form used as the store key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user. An existing email yields common.ErrorUserExists
// without hashing or writing; storage failures yield
// common.ErrorStoreUnavailable.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	_, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrorUserExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, errors.Join(common.ErrorStoreUnavailable, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errors.Join(common.ErrorInternal, err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			// lost a race with a concurrent registration
			return nil, common.ErrorUserExists
		}
		return nil, errors.Join(common.ErrorStoreUnavailable, err)
	}

	return created, nil
}

// Login verifies the credentials and mints a session token. Unknown email and
// wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, errors.Join(common.ErrorStoreUnavailable, err)
	}

	if !s.checkPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.GenerateToken(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, errors.Join(common.ErrorInternal, err)
	}

	return &LoginResult{Token: token, Email: user.Email, Name: user.Name}, nil
}

func (s *UserService) checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
