package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/reelplan/reelplan/internal/models"
)

func setupAuthMock(t *testing.T) (*PostgresAuthRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresAuthRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func TestEmailExists(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`)).
		WithArgs("a@b.io").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "a@b.io")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected exists = true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateAccount(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	acc := models.Account{
		ID:           "u1",
		Email:        "a@b.io",
		PasswordHash: []byte("hash"),
		DisplayName:  "Alice",
	}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(acc.ID, acc.Email, acc.PasswordHash, acc.DisplayName, acc.AvatarRef).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.CreateAccount(context.Background(), acc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAccountByEmail_NotFound(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("missing@b.io").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "display_name", "avatar_ref"}))

	_, err := repo.AccountByEmail(context.Background(), "missing@b.io")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v; want ErrNotFound", err)
	}
}

func TestAccountByToken(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "display_name", "avatar_ref"}).
		AddRow("u1", "a@b.io", []byte("hash"), "Alice", "")
	mock.ExpectQuery("SELECT u.id, u.email").
		WithArgs("tok").
		WillReturnRows(rows)

	acc, err := repo.AccountByToken(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.ID != "u1" || acc.Email != "a@b.io" {
		t.Errorf("account = %+v; want u1/a@b.io", acc)
	}
}

func TestSaveAndDeleteSession(t *testing.T) {
	repo, mock, cleanup := setupAuthMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sessions (token, user_id) VALUES ($1, $2)`)).
		WithArgs("tok", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE token = $1`)).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	if err := repo.SaveSession(ctx, "tok", "u1"); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := repo.DeleteSession(ctx, "tok"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
