// Package identities is the credential directory: the records of registered
// users that login looks up and register inserts into. Email uniqueness is
// case-insensitive in every implementation.
package identities

import (
	"context"

	"github.com/dmitrijs2005/librarydesk/internal/client/models"
)

// Directory is the credential directory contract.
//
// FindByEmail returns common.ErrorNotFound when no identity has the email.
// Insert returns common.ErrEmailAlreadyExists when the email is taken and
// leaves the directory unchanged.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	Insert(ctx context.Context, identity *models.Identity) error
}
