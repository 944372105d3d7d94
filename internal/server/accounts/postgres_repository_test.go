package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/common"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	repo, err := NewPostgresRepository(db)
	if err != nil {
		t.Fatalf("NewPostgresRepository error: %v", err)
	}
	return repo, mock, db
}

var accountRowColumns = []string{
	"id", "serial_number", "website", "name", "username", "email", "password",
	"weblogo", "note",
	"file_name", "file_storage_key", "file_content_type", "file_size", "file_uploaded_at",
	"user_id", "created_at", "updated_at",
}

func TestCreate_AssignsSerialNumber(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `(?s)INSERT\s+INTO\s+accounts\s*\(serial_number,.*SELECT\s+COALESCE\(MAX\(serial_number\),\s*0\)\s*\+\s*1\s+FROM\s+accounts.*RETURNING\s+id,\s*serial_number`

	rows := sqlmock.NewRows([]string{"id", "serial_number", "created_at", "updated_at"}).
		AddRow("a-1", int64(7), now, now)
	mock.ExpectQuery(q).
		WithArgs("github.com", "GitHub", "alice", "alice@example.com", "pw", "https://icons.duckduckgo.com/ip3/github.com.ico", "", "u-1").
		WillReturnRows(rows)

	a := &models.Account{
		Website: "github.com", Name: "GitHub", Username: "alice",
		Email: "alice@example.com", Password: "pw",
		WebLogo: "https://icons.duckduckgo.com/ip3/github.com.ico", UserID: "u-1",
	}
	got, err := repo.Create(context.Background(), nil, a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "a-1" || got.SerialNumber != 7 {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGetByID_WithAttachment(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(accountRowColumns).
		AddRow("a-1", int64(1), "github.com", "GitHub", "alice", "a@e.com", "pw",
			"", "",
			"report.pdf", "attachments/2026/1/2/key", "application/pdf", int64(1234), now,
			"u-1", now, now)
	mock.ExpectQuery(`SELECT\s+id,\s*serial_number.*FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("a-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.AttachedFile == nil {
		t.Fatalf("expected attachment, got none")
	}
	if got.AttachedFile.Filename != "report.pdf" || got.AttachedFile.Size != 1234 {
		t.Fatalf("unexpected attachment: %+v", got.AttachedFile)
	}
}

func TestGetByID_NullAttachmentFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(accountRowColumns).
		AddRow("a-1", int64(1), "github.com", "GitHub", "alice", "a@e.com", "pw",
			"", "",
			nil, nil, nil, nil, nil,
			"u-1", now, now)
	mock.ExpectQuery(`SELECT\s+id,\s*serial_number.*FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("a-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.AttachedFile != nil {
		t.Fatalf("expected no attachment, got %+v", got.AttachedFile)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*serial_number.*FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestListByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(accountRowColumns).
		AddRow("a-1", int64(1), "github.com", "GitHub", "alice", "a@e.com", "pw",
			"", "", nil, nil, nil, nil, nil, "u-1", now, now).
		AddRow("a-2", int64(2), "google.com", "Google", "alice", "a@e.com", "pw",
			"", "", nil, nil, nil, nil, nil, "u-1", now, now)
	mock.ExpectQuery(`(?s)SELECT\s+id,\s*serial_number.*FROM\s+accounts\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+serial_number`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 2 || got[1].SerialNumber != 2 {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE\s+accounts\s+SET.*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$8`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Account{ID: "missing", Website: "x.com", Name: "X"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "a-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestSetAttachment_Clear(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE\s+accounts\s+SET\s+file_name\s*=\s*\$1`).
		WithArgs(nil, nil, nil, nil, nil, "a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetAttachment(context.Background(), "a-1", nil); err != nil {
		t.Fatalf("SetAttachment error: %v", err)
	}
}
