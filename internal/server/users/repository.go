package users

import (
	"context"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	CountNonAdmin(ctx context.Context) (int, error)
	SetAdmin(ctx context.Context, id string) (*models.User, error)
}
