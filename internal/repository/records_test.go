package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupRecordMock(t *testing.T) (*PostgresRecordRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresRecordRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func TestUpsertDocument(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	data := json.RawMessage(`{"title":"Launch"}`)
	mock.ExpectExec("INSERT INTO documents").
		WithArgs("users/u1/calendar", "d1", []byte(data), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpsertDocument(context.Background(), "users/u1/calendar", "d1", data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpsertDocument_Error(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO documents").
		WillReturnError(errors.New("db down"))

	err := repo.UpsertDocument(context.Background(), "users/u1/calendar", "d1", json.RawMessage(`{}`))
	if err == nil || !regexp.MustCompile(`UpsertDocument`).MatchString(err.Error()) {
		t.Errorf("expected UpsertDocument error, got %v", err)
	}
}

func TestDocumentsByCollection(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"doc_id", "data"}).
		AddRow("d1", []byte(`{"title":"a"}`)).
		AddRow("d2", []byte(`{"title":"b"}`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc_id, data FROM documents WHERE collection = $1 AND deleted = false`)).
		WithArgs("users/u1/calendar").
		WillReturnRows(rows)

	docs, err := repo.DocumentsByCollection(context.Background(), "users/u1/calendar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "d1" || docs[1].ID != "d2" {
		t.Errorf("docs = %+v; want d1, d2", docs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSoftDeleteDocument(t *testing.T) {
	repo, mock, cleanup := setupRecordMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE documents SET deleted = true").
		WithArgs("users/u1/calendar", "d1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SoftDeleteDocument(context.Background(), "users/u1/calendar", "d1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
