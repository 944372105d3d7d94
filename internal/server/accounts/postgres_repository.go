// Package accounts provides PostgreSQL-backed persistence and the business
// service for vault entries.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/common"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/dbx"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

const accountColumns = `id, serial_number, website, name, username, email, password,
	COALESCE(weblogo, ''), COALESCE(note, ''),
	file_name, file_storage_key, file_content_type, file_size, file_uploaded_at,
	user_id, created_at, updated_at`

// Create inserts the account, assigning the serial number as the current
// maximum plus one in the same statement. Callers that care about the race
// window between concurrent creates should run it inside a transaction.
func (r *PostgresRepository) Create(ctx context.Context, tx dbx.DBTX, account *models.Account) (*models.Account, error) {

	if tx == nil {
		tx = r.db
	}

	query :=
		`INSERT INTO accounts (serial_number, website, name, username, email, password, weblogo, note, user_id)
         VALUES ((SELECT COALESCE(MAX(serial_number), 0) + 1 FROM accounts), $1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, serial_number, created_at, updated_at
		 `

	err := tx.QueryRowContext(ctx, query,
		account.Website, account.Name, account.Username, account.Email,
		account.Password, account.WebLogo, account.Note, account.UserID).
		Scan(&account.ID, &account.SerialNumber, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return account, nil
}

func scanAccount(row interface{ Scan(dest ...any) error }) (*models.Account, error) {
	a := &models.Account{}

	var fileName, fileKey, fileType sql.NullString
	var fileSize sql.NullInt64
	var fileUploadedAt sql.NullTime

	err := row.Scan(
		&a.ID, &a.SerialNumber, &a.Website, &a.Name, &a.Username, &a.Email, &a.Password,
		&a.WebLogo, &a.Note,
		&fileName, &fileKey, &fileType, &fileSize, &fileUploadedAt,
		&a.UserID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fileKey.Valid && fileKey.String != "" {
		a.AttachedFile = &models.AttachedFile{
			Filename:    fileName.String,
			StorageKey:  fileKey.String,
			ContentType: fileType.String,
			Size:        fileSize.Int64,
			UploadedAt:  fileUploadedAt.Time,
		}
	}

	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return a, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select accounts: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY serial_number`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY serial_number`
	return r.list(ctx, query)
}

// Update rewrites the editable fields. Owner, serial number, and attachment
// metadata are never touched here.
func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) error {

	query :=
		`UPDATE accounts SET
			website = $1, name = $2, username = $3, email = $4,
			password = $5, weblogo = $6, note = $7, updated_at = now()
		 WHERE id = $8
		 `

	res, err := r.db.ExecContext(ctx, query,
		account.Website, account.Name, account.Username, account.Email,
		account.Password, account.WebLogo, account.Note, account.ID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {

	query := `DELETE FROM accounts WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// SetAttachment records the attachment descriptor on the account row.
// A nil file clears the descriptor.
func (r *PostgresRepository) SetAttachment(ctx context.Context, accountID string, file *models.AttachedFile) error {

	query :=
		`UPDATE accounts SET
			file_name = $1, file_storage_key = $2, file_content_type = $3,
			file_size = $4, file_uploaded_at = $5, updated_at = now()
		 WHERE id = $6
		 `

	var name, key, contentType sql.NullString
	var size sql.NullInt64
	var uploadedAt sql.NullTime

	if file != nil {
		name = sql.NullString{String: file.Filename, Valid: true}
		key = sql.NullString{String: file.StorageKey, Valid: true}
		contentType = sql.NullString{String: file.ContentType, Valid: true}
		size = sql.NullInt64{Int64: file.Size, Valid: true}
		uploadedAt = sql.NullTime{Time: file.UploadedAt, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, name, key, contentType, size, uploadedAt, accountID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
