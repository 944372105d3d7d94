package accounts

import (
	"context"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/dbx"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, tx dbx.DBTX, account *models.Account) (*models.Account, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Account, error)
	ListAll(ctx context.Context) ([]*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
	SetAttachment(ctx context.Context, accountID string, file *models.AttachedFile) error
}
