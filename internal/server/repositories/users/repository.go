// Package users is the credential store: persistence for registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/taskdesk/internal/server/models"
)

// Repository persists users. Create fails with common.ErrorAlreadyExists when
// the email is taken and leaves the store untouched; GetUserByEmail returns
// common.ErrorNotFound for unknown emails. Emails are compared exactly.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
