package repositories

import (
	"context"

	"storefront/internal/models"
)

// UserRepository is the credential store. Create must reject a duplicate email
// atomically, returning an error matching apperrors.ErrDuplicateIdentity.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}
