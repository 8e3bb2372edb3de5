// Package planner is the single entry point feature code uses to create,
// list, and delete owner-scoped calendar tasks. It reconciles a durable
// on-device store with a best-effort remote mirror.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/reelplan/reelplan/internal/models"
	"github.com/reelplan/reelplan/internal/store/local"
	"github.com/reelplan/reelplan/internal/store/remote"
)

// RecordStore is the persistence strategy behind the facade. The
// implementation is selected once at composition time: LocalOnlyStore
// when the remote backend is disabled, MirroredStore otherwise.
type RecordStore interface {
	// Create stores a fully-populated task for owner.
	Create(ctx context.Context, owner string, task models.CalendarTask) error
	// List returns the owner's tasks, unordered.
	List(ctx context.Context, owner string) ([]models.CalendarTask, error)
	// Delete removes the task with the given id. Deleting a missing id
	// is a no-op.
	Delete(ctx context.Context, owner, id string) error
}

// RemoteAPI is the narrow remote-store surface the mirrored strategy
// consumes. *remote.Client satisfies it.
type RemoteAPI interface {
	Write(ctx context.Context, collection, docID string, data any) error
	ReadAll(ctx context.Context, collection string) ([]remote.Document, error)
	Delete(ctx context.Context, collection, docID string) error
}

// collectionPath namespaces an owner's calendar documents.
func collectionPath(owner string) string {
	return "users/" + owner + "/calendar"
}

// LocalOnlyStore keeps all records in the on-device key-value store,
// serialized per owner. It is also the durable half of MirroredStore.
type LocalOnlyStore struct {
	kv *local.Store
}

// NewLocalOnlyStore builds a LocalOnlyStore over kv.
func NewLocalOnlyStore(kv *local.Store) *LocalOnlyStore {
	return &LocalOnlyStore{kv: kv}
}

func taskKey(owner string) string {
	return "tasks:" + owner
}

func (s *LocalOnlyStore) load(owner string) ([]models.CalendarTask, error) {
	raw, ok := s.kv.Get(taskKey(owner))
	if !ok {
		return nil, nil
	}
	var tasks []models.CalendarTask
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode task set: %w", err)
	}
	return tasks, nil
}

func (s *LocalOnlyStore) persist(owner string, tasks []models.CalendarTask) error {
	b, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode task set: %w", err)
	}
	return s.kv.Set(taskKey(owner), string(b))
}

// Create appends the task to the owner's record set.
func (s *LocalOnlyStore) Create(_ context.Context, owner string, task models.CalendarTask) error {
	tasks, err := s.load(owner)
	if err != nil {
		return err
	}
	return s.persist(owner, append(tasks, task))
}

// List returns the owner's record set.
func (s *LocalOnlyStore) List(_ context.Context, owner string) ([]models.CalendarTask, error) {
	return s.load(owner)
}

// Delete removes the task with id, if present.
func (s *LocalOnlyStore) Delete(_ context.Context, owner, id string) error {
	tasks, err := s.load(owner)
	if err != nil {
		return err
	}
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return nil
	}
	return s.persist(owner, kept)
}

// MirroredStore writes locally first, then mirrors to the remote store
// through the retry queue. Reads go to the remote store. The remote path
// is skipped entirely for guest owner keys: the backend has no concept of
// a guest owner, so the guard runs before any call is made.
type MirroredStore struct {
	local  *LocalOnlyStore
	remote RemoteAPI
	queue  *MirrorQueue
	log    *zap.Logger
}

// NewMirroredStore builds a MirroredStore. queue must already be started.
func NewMirroredStore(localStore *LocalOnlyStore, remoteAPI RemoteAPI, queue *MirrorQueue, log *zap.Logger) *MirroredStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &MirroredStore{local: localStore, remote: remoteAPI, queue: queue, log: log}
}

// isGuestOwner reports whether key namespaces guest records.
func isGuestOwner(key string) bool {
	return key == models.GuestID || strings.HasPrefix(key, guestKeyPrefix)
}

// Create writes locally, then enqueues the remote mirror write. The
// operation succeeds on the local outcome alone.
func (s *MirroredStore) Create(ctx context.Context, owner string, task models.CalendarTask) error {
	if err := s.local.Create(ctx, owner, task); err != nil {
		return err
	}
	if isGuestOwner(owner) {
		return nil
	}
	s.queue.Enqueue(mirrorOp{
		write:      true,
		collection: collectionPath(owner),
		docID:      task.ID,
		task:       task,
	})
	return nil
}

// List reads the remote collection, degrading to an empty set when the
// remote store is unavailable. Guest owners read locally.
func (s *MirroredStore) List(ctx context.Context, owner string) ([]models.CalendarTask, error) {
	if isGuestOwner(owner) {
		return s.local.List(ctx, owner)
	}
	docs, err := s.remote.ReadAll(ctx, collectionPath(owner))
	if err != nil {
		s.log.Warn("remote list unavailable", zap.String("owner", owner), zap.Error(err))
		return []models.CalendarTask{}, nil
	}
	tasks := make([]models.CalendarTask, 0, len(docs))
	for _, doc := range docs {
		var t models.CalendarTask
		if err := json.Unmarshal(doc.Data, &t); err != nil {
			s.log.Warn("skipping undecodable remote document",
				zap.String("doc", doc.ID), zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Delete removes locally, then enqueues the remote removal.
func (s *MirroredStore) Delete(ctx context.Context, owner, id string) error {
	if err := s.local.Delete(ctx, owner, id); err != nil {
		return err
	}
	if isGuestOwner(owner) {
		return nil
	}
	s.queue.Enqueue(mirrorOp{
		collection: collectionPath(owner),
		docID:      id,
	})
	return nil
}
