// Package services contains application services for the taskdesk CLI.
// AuthService registers and logs in against the API, keeps the session in
// the local metadata store and fetches token-gated resources with it.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskdesk/internal/client/client"
	"github.com/dmitrijs2005/taskdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/dmitrijs2005/taskdesk/internal/dbx"
)

const (
	keyToken = "token"
	keyEmail = "email"
	keyName  = "name"
)

// ErrNotLoggedIn means no session is stored locally.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is what the CLI remembers between runs, like the browser keeps
// the token in local storage.
type Session struct {
	Token string
	Email string
	Name  string
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new user on the server.
//   - Login: authenticate and persist the session locally.
//   - CurrentSession: the stored session, or ErrNotLoggedIn.
//   - Products: fetch the token-gated resource with the stored token. A
//     token the server rejects is dropped from the local store.
//   - Logout: forget the stored session.
//   - Ping: check server liveness.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) (*Session, error)
	CurrentSession(ctx context.Context) (*Session, error)
	Products(ctx context.Context) (*client.Product, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db}
}

func (a *authService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) error {
	return a.client.Register(ctx, name, email, string(password))
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	res, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, err
	}

	s := &Session{Token: res.Token, Email: res.Email, Name: res.Name}
	if err := a.saveSession(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}

// saveSession replaces the stored session in a single transaction.
func (a *authService) saveSession(ctx context.Context, s *Session) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		for k, v := range map[string]string{keyToken: s.Token, keyEmail: s.Email, keyName: s.Name} {
			if err := repo.Set(ctx, k, []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *authService) CurrentSession(ctx context.Context) (*Session, error) {
	repo := a.getMetadataRepo(a.db)

	values := make(map[string]string, 3)
	for _, k := range []string{keyToken, keyEmail, keyName} {
		v, err := repo.Get(ctx, k)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, ErrNotLoggedIn
			}
			return nil, err
		}
		values[k] = string(v)
	}

	if values[keyToken] == "" {
		return nil, ErrNotLoggedIn
	}
	return &Session{Token: values[keyToken], Email: values[keyEmail], Name: values[keyName]}, nil
}

func (a *authService) Products(ctx context.Context) (*client.Product, error) {
	s, err := a.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	p, err := a.client.Products(ctx, s.Token)
	if errors.Is(err, client.ErrTokenRejected) {
		if clearErr := a.Logout(ctx); clearErr != nil {
			return nil, errors.Join(err, clearErr)
		}
		return nil, err
	}
	return p, err
}

func (a *authService) Logout(ctx context.Context) error {
	return a.getMetadataRepo(a.db).Clear(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
