package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/common"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/dbx"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logging"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logo"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
)

// BlobDeleter removes a stored attachment blob. Satisfied by the blob store.
type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

type Service struct {
	db     *sql.DB
	repo   Repository
	blobs  BlobDeleter
	logger logging.Logger
}

func NewService(db *sql.DB, repo Repository, blobs BlobDeleter, logger logging.Logger) *Service {
	return &Service{db: db, repo: repo, blobs: blobs, logger: logger}
}

// Create stores a new account for the user. The weblogo field is filled with
// a favicon hint derived from the website when the caller left it empty.
func (s *Service) Create(ctx context.Context, userID string, account *models.Account) (*models.Account, error) {

	if account.Website == "" || account.Name == "" {
		return nil, common.ErrorValidation
	}

	account.UserID = userID
	if account.WebLogo == "" {
		if domain := logo.CleanDomain(account.Website); domain != "" {
			account.WebLogo = fmt.Sprintf("https://icons.duckduckgo.com/ip3/%s.ico", domain)
		}
	}

	var created *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repo.Create(ctx, tx, account)
		return err
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	return created, nil
}

// List returns the user's accounts. Admins see every account.
func (s *Service) List(ctx context.Context, user *models.User) ([]*models.Account, error) {
	if user.IsAdmin {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByUser(ctx, user.ID)
}

// Get loads an account after checking the caller is the owner or an admin.
func (s *Service) Get(ctx context.Context, user *models.User, accountID string) (*models.Account, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != user.ID && !user.IsAdmin {
		return nil, common.ErrorForbidden
	}
	return account, nil
}

// Update replaces the editable fields of an account. Owner, serial number
// and attachment metadata are preserved.
func (s *Service) Update(ctx context.Context, user *models.User, accountID string, updated *models.Account) (*models.Account, error) {
	account, err := s.Get(ctx, user, accountID)
	if err != nil {
		return nil, err
	}

	if updated.Website == "" || updated.Name == "" {
		return nil, common.ErrorValidation
	}

	account.Website = updated.Website
	account.Name = updated.Name
	account.Username = updated.Username
	account.Email = updated.Email
	account.Password = updated.Password
	account.Note = updated.Note
	account.WebLogo = updated.WebLogo
	if account.WebLogo == "" {
		if domain := logo.CleanDomain(account.Website); domain != "" {
			account.WebLogo = fmt.Sprintf("https://icons.duckduckgo.com/ip3/%s.ico", domain)
		}
	}

	if err := s.repo.Update(ctx, account); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return s.repo.GetByID(ctx, accountID)
}

// Delete removes the account and, best effort, its attachment blob. A blob
// store failure is logged but does not fail the deletion.
func (s *Service) Delete(ctx context.Context, user *models.User, accountID string) error {
	account, err := s.Get(ctx, user, accountID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, accountID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if account.AttachedFile != nil {
		if err := s.blobs.Delete(ctx, account.AttachedFile.StorageKey); err != nil {
			s.logger.Warn(ctx, "error deleting attachment blob", "key", account.AttachedFile.StorageKey, "error", err)
		}
	}

	return nil
}
