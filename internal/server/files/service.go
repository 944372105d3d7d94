// Package files implements attachment upload, download and short-lived
// download grants on top of the accounts repository and the blob store.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/common"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logging"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/accounts"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/blobstore"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/config"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/tokens"
)

// allowedContentTypes lists the MIME types an attachment may have.
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
	"text/plain":      true,
}

type Service struct {
	accounts      *accounts.Service
	repo          accounts.Repository
	blobs         blobstore.Store
	grants        tokens.Store
	logger        logging.Logger
	maxUploadSize int64
	tokenValidity time.Duration
}

func NewService(accountsSvc *accounts.Service, repo accounts.Repository, blobs blobstore.Store, grants tokens.Store, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		accounts:      accountsSvc,
		repo:          repo,
		blobs:         blobs,
		grants:        grants,
		logger:        logger,
		maxUploadSize: cfg.MaxUploadSize,
		tokenValidity: cfg.TempTokenValidityDuration,
	}
}

// Upload stores the blob and records it as the account's attachment. An
// existing attachment is replaced; its old blob is removed best effort.
func (s *Service) Upload(ctx context.Context, user *models.User, accountID, filename, contentType string, size int64, body io.Reader) (*models.Account, error) {

	if filename == "" || size <= 0 {
		return nil, common.ErrorValidation
	}
	if size > s.maxUploadSize {
		return nil, common.ErrorFileTooLarge
	}
	if !allowedContentTypes[contentType] {
		return nil, common.ErrorUnsupportedType
	}

	account, err := s.accounts.Get(ctx, user, accountID)
	if err != nil {
		return nil, err
	}

	key := blobstore.RandomStorageKey()
	if err := s.blobs.Put(ctx, key, contentType, size, body); err != nil {
		return nil, common.ErrorInternal
	}

	previous := account.AttachedFile

	file := &models.AttachedFile{
		Filename:    filename,
		StorageKey:  key,
		ContentType: contentType,
		Size:        size,
		UploadedAt:  time.Now(),
	}
	if err := s.repo.SetAttachment(ctx, accountID, file); err != nil {
		return nil, common.ErrorInternal
	}

	if previous != nil {
		if err := s.blobs.Delete(ctx, previous.StorageKey); err != nil {
			s.logger.Warn(ctx, "error deleting replaced blob", "key", previous.StorageKey, "error", err)
		}
	}

	return s.repo.GetByID(ctx, accountID)
}

// DeleteAttachment removes the account's attachment and its blob.
func (s *Service) DeleteAttachment(ctx context.Context, user *models.User, accountID string) (*models.Account, error) {
	account, err := s.accounts.Get(ctx, user, accountID)
	if err != nil {
		return nil, err
	}
	if account.AttachedFile == nil {
		return nil, common.ErrorNoAttachment
	}
	key := account.AttachedFile.StorageKey

	if err := s.repo.SetAttachment(ctx, accountID, nil); err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "error deleting attachment blob", "key", key, "error", err)
	}

	return s.repo.GetByID(ctx, accountID)
}

// GenerateAccess mints a temporary download token for the account's
// attachment and returns a ready-to-use download URL.
func (s *Service) GenerateAccess(ctx context.Context, user *models.User, accountID string) (string, time.Time, error) {
	account, err := s.accounts.Get(ctx, user, accountID)
	if err != nil {
		return "", time.Time{}, err
	}
	if account.AttachedFile == nil {
		return "", time.Time{}, common.ErrorNoAttachment
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", time.Time{}, common.ErrorInternal
	}

	expires := time.Now().Add(s.tokenValidity)
	s.grants.Put(token, accountID, s.tokenValidity)

	url := fmt.Sprintf("/api/accounts/file/%s?temp=%s", accountID, token)
	return url, expires, nil
}

// DownloadForUser streams the attachment for its owner or an admin.
func (s *Service) DownloadForUser(ctx context.Context, user *models.User, accountID string) (*models.AttachedFile, *blobstore.Object, error) {
	account, err := s.accounts.Get(ctx, user, accountID)
	if err != nil {
		return nil, nil, err
	}
	return s.open(ctx, account)
}

// DownloadWithToken streams the attachment when the temporary token grants
// access to this account.
func (s *Service) DownloadWithToken(ctx context.Context, token, accountID string) (*models.AttachedFile, *blobstore.Object, error) {
	grant, ok := s.grants.Get(token)
	if !ok {
		return nil, nil, common.ErrTokenExpired
	}
	if grant.AccountID != accountID {
		return nil, nil, common.ErrInvalidToken
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}
	return s.open(ctx, account)
}

func (s *Service) open(ctx context.Context, account *models.Account) (*models.AttachedFile, *blobstore.Object, error) {
	if account.AttachedFile == nil {
		return nil, nil, common.ErrorNoAttachment
	}

	obj, err := s.blobs.Get(ctx, account.AttachedFile.StorageKey)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}
	if obj.ContentType == "" {
		obj.ContentType = account.AttachedFile.ContentType
	}
	return account.AttachedFile, obj, nil
}
