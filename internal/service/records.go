package service

import (
	"context"
	"encoding/json"

	"github.com/reelplan/reelplan/internal/repository"
)

// RecordRepository defines the persistence operations needed by the
// RecordService.
type RecordRepository interface {
	// UpsertDocument inserts or replaces a document.
	UpsertDocument(ctx context.Context, collection, docID string, data json.RawMessage) error
	// DocumentsByCollection retrieves all live documents of a collection.
	DocumentsByCollection(ctx context.Context, collection string) ([]repository.Document, error)
	// SoftDeleteDocument tombstones a document.
	SoftDeleteDocument(ctx context.Context, collection, docID string) error
}

// RecordService implements the owner-scoped document operations backing
// the clients' remote record store.
type RecordService struct {
	// repo is the underlying persistence repository.
	repo RecordRepository
}

// NewRecordService constructs a RecordService with the provided
// repository.
func NewRecordService(repo RecordRepository) *RecordService {
	return &RecordService{repo: repo}
}

// calendarCollection builds the collection path for an owner's calendar.
func calendarCollection(owner string) string {
	return "users/" + owner + "/calendar"
}

// Write upserts a calendar document for the owner.
func (s *RecordService) Write(ctx context.Context, owner, docID string, data json.RawMessage) error {
	return s.repo.UpsertDocument(ctx, calendarCollection(owner), docID, data)
}

// List fetches all of the owner's calendar documents. An owner with no
// documents yields an empty slice.
func (s *RecordService) List(ctx context.Context, owner string) ([]repository.Document, error) {
	docs, err := s.repo.DocumentsByCollection(ctx, calendarCollection(owner))
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []repository.Document{}
	}
	return docs, nil
}

// Delete tombstones a calendar document. Unknown ids are a no-op.
func (s *RecordService) Delete(ctx context.Context, owner, docID string) error {
	return s.repo.SoftDeleteDocument(ctx, calendarCollection(owner), docID)
}
