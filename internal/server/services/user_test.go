package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/dmitrijs2005/taskdesk/internal/server/auth"
	"github.com/dmitrijs2005/taskdesk/internal/server/models"
	"github.com/dmitrijs2005/taskdesk/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	m, err := auth.NewTokenManager("k", 24*time.Hour)
	require.NoError(t, err)
	return m
}

func newUserService(t *testing.T, repo users.Repository) *UserService {
	t.Helper()
	s, err := NewUserService(repo, newTokenManager(t), bcrypt.MinCost)
	require.NoError(t, err)
	return s
}

// countingRepo wraps a repository and records calls, optionally failing them.
type countingRepo struct {
	inner     users.Repository
	creates   int
	gets      int
	getErr    error
	createErr error
}

func (r *countingRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.creates++
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.inner.Create(ctx, u)
}

func (r *countingRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.gets++
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.inner.GetUserByEmail(ctx, email)
}

// --- tests ---

func TestNewUserService_BadCost(t *testing.T) {
	_, err := NewUserService(users.NewInMemoryRepository(), newTokenManager(t), bcrypt.MaxCost+1)
	assert.Error(t, err)
}

func TestRegisterThenLogin(t *testing.T) {
	repo := users.NewInMemoryRepository()
	s := newUserService(t, repo)
	ctx := context.Background()

	u, err := s.Register(ctx, "Alice", "alice@example.com", "s3cret!")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "s3cret!", u.PasswordHash)

	res, err := s.Login(ctx, "alice@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", res.Email)
	assert.Equal(t, "Alice", res.Name)

	id, err := newTokenManager(t).ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.Equal(t, u.ID, id.UserID)
}

func TestRegister_EmailIsCaseInsensitive(t *testing.T) {
	repo := users.NewInMemoryRepository()
	s := newUserService(t, repo)
	ctx := context.Background()

	_, err := s.Register(ctx, " Bob ", "  Bob@Example.COM ", "pw12")
	require.NoError(t, err)

	_, err = s.Register(ctx, "Bob2", "bob@example.com", "pw34")
	assert.True(t, errors.Is(err, common.ErrorUserExists), "got %v", err)

	res, err := s.Login(ctx, "BOB@example.com", "pw12")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", res.Email)
	assert.Equal(t, "Bob", res.Name)
}

func TestRegister_DuplicateDoesNotWrite(t *testing.T) {
	repo := &countingRepo{inner: users.NewInMemoryRepository()}
	s := newUserService(t, repo)
	ctx := context.Background()

	_, err := s.Register(ctx, "Alice", "alice@example.com", "first")
	require.NoError(t, err)
	require.Equal(t, 1, repo.creates)

	_, err = s.Register(ctx, "Alice Again", "alice@example.com", "second")
	assert.True(t, errors.Is(err, common.ErrorUserExists), "got %v", err)
	assert.Equal(t, 1, repo.creates, "duplicate must not reach Create")

	stored, err := repo.inner.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
}

func TestRegister_LostRaceMapsToUserExists(t *testing.T) {
	repo := &countingRepo{inner: users.NewInMemoryRepository(), createErr: common.ErrorAlreadyExists}
	s := newUserService(t, repo)

	_, err := s.Register(context.Background(), "Alice", "alice@example.com", "pw")
	assert.True(t, errors.Is(err, common.ErrorUserExists), "got %v", err)
}

func TestRegister_Validation(t *testing.T) {
	repo := &countingRepo{inner: users.NewInMemoryRepository()}
	s := newUserService(t, repo)
	ctx := context.Background()

	cases := [][3]string{
		{"", "a@example.com", "pw"},
		{"  ", "a@example.com", "pw"},
		{"A", "", "pw"},
		{"A", "a@example.com", ""},
	}
	for _, c := range cases {
		_, err := s.Register(ctx, c[0], c[1], c[2])
		assert.True(t, errors.Is(err, common.ErrorValidation), "input %v: got %v", c, err)
	}
	assert.Zero(t, repo.gets)
	assert.Zero(t, repo.creates)
}

func TestRegister_StoreUnavailable(t *testing.T) {
	ctx := context.Background()

	s := newUserService(t, &countingRepo{inner: users.NewInMemoryRepository(), getErr: errBoom{}})
	_, err := s.Register(ctx, "A", "a@example.com", "pw")
	assert.True(t, errors.Is(err, common.ErrorStoreUnavailable), "lookup failure: got %v", err)

	s = newUserService(t, &countingRepo{inner: users.NewInMemoryRepository(), createErr: errBoom{}})
	_, err = s.Register(ctx, "A", "a@example.com", "pw")
	assert.True(t, errors.Is(err, common.ErrorStoreUnavailable), "create failure: got %v", err)
	assert.False(t, errors.Is(err, common.ErrorUserExists))
}

func TestRegister_SaltsHashes(t *testing.T) {
	repo := users.NewInMemoryRepository()
	s := newUserService(t, repo)
	ctx := context.Background()

	a, err := s.Register(ctx, "A", "a@example.com", "same-password")
	require.NoError(t, err)
	b, err := s.Register(ctx, "B", "b@example.com", "same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a.PasswordHash, b.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("same-password")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(b.PasswordHash), []byte("same-password")))
}

func TestRegister_HonoursCost(t *testing.T) {
	s, err := NewUserService(users.NewInMemoryRepository(), newTokenManager(t), 5)
	require.NoError(t, err)

	u, err := s.Register(context.Background(), "A", "a@example.com", "pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(u.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestLogin_NoAccountOracle(t *testing.T) {
	repo := users.NewInMemoryRepository()
	s := newUserService(t, repo)
	ctx := context.Background()

	_, err := s.Register(ctx, "Alice", "alice@example.com", "right")
	require.NoError(t, err)

	_, wrongPassword := s.Login(ctx, "alice@example.com", "wrong")
	_, unknownEmail := s.Login(ctx, "ghost@example.com", "right")

	assert.True(t, errors.Is(wrongPassword, common.ErrorUnauthorized))
	assert.True(t, errors.Is(unknownEmail, common.ErrorUnauthorized))
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestLogin_ReadOnly(t *testing.T) {
	repo := &countingRepo{inner: users.NewInMemoryRepository()}
	s := newUserService(t, repo)
	ctx := context.Background()

	_, err := s.Register(ctx, "Alice", "alice@example.com", "pw")
	require.NoError(t, err)
	repo.creates = 0

	_, err = s.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	_, _ = s.Login(ctx, "alice@example.com", "bad")
	_, _ = s.Login(ctx, "ghost@example.com", "pw")

	assert.Zero(t, repo.creates)
}

func TestLogin_StoreUnavailable(t *testing.T) {
	s := newUserService(t, &countingRepo{inner: users.NewInMemoryRepository(), getErr: errBoom{}})

	_, err := s.Login(context.Background(), "alice@example.com", "pw")
	assert.True(t, errors.Is(err, common.ErrorStoreUnavailable), "got %v", err)
	assert.False(t, errors.Is(err, common.ErrorUnauthorized))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.c", NormalizeEmail("  A@B.c\t"))
	assert.Equal(t, "", NormalizeEmail("   "))
}
