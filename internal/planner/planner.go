package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reelplan/reelplan/internal/models"
	"github.com/reelplan/reelplan/internal/store/local"
)

// ErrNoIdentity is returned when an operation runs before any identity
// is resolved.
var ErrNoIdentity = errors.New("planner: no resolved identity")

// SessionSource provides the current identity. *session.Store satisfies it.
type SessionSource interface {
	Identity() *models.Identity
}

// Facade mediates all calendar reads and writes between the local and
// remote stores. Construct one per process with NewFacade.
type Facade struct {
	session SessionSource
	kv      *local.Store
	store   RecordStore
	log     *zap.Logger
}

// NewFacade builds a Facade. store is the strategy selected at
// composition time (LocalOnlyStore or MirroredStore).
func NewFacade(session SessionSource, kv *local.Store, store RecordStore, log *zap.Logger) *Facade {
	if log == nil {
		log = zap.NewNop()
	}
	return &Facade{session: session, kv: kv, store: store, log: log}
}

// Create validates task, assigns a fresh id and creation timestamp, and
// stores it under the resolved owner key. Success is determined by the
// durable local write alone; remote mirroring never delays or fails it.
func (f *Facade) Create(ctx context.Context, task models.CalendarTask) (string, error) {
	if err := task.Validate(); err != nil {
		return "", err
	}
	owner, err := f.ResolveOwnerKey()
	if err != nil {
		return "", err
	}

	task.ID = uuid.NewString()
	task.CreatedAt = time.Now().UTC()

	if err := f.store.Create(ctx, owner, task); err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	f.log.Debug("task created",
		zap.String("id", task.ID), zap.String("date", task.Date), zap.String("owner", owner))
	return task.ID, nil
}

// List returns the owner's tasks sorted by (date, hour) ascending. The
// hour tie-break is a plain string comparison, valid because the format
// is zero-padded HH:MM.
func (f *Facade) List(ctx context.Context) ([]models.CalendarTask, error) {
	owner, err := f.ResolveOwnerKey()
	if err != nil {
		return nil, err
	}
	tasks, err := f.store.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Date != tasks[j].Date {
			return tasks[i].Date < tasks[j].Date
		}
		return tasks[i].Hour < tasks[j].Hour
	})
	return tasks, nil
}

// ListByDate returns List filtered by exact date-string equality. The
// caller supplies date in canonical YYYY-MM-DD form.
func (f *Facade) ListByDate(ctx context.Context, date string) ([]models.CalendarTask, error) {
	tasks, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.CalendarTask, 0, len(tasks))
	for _, t := range tasks {
		if t.Date == date {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// Delete removes the task with id from the owner's record set. Deleting
// an unknown id is a no-op, not an error.
func (f *Facade) Delete(ctx context.Context, id string) error {
	owner, err := f.ResolveOwnerKey()
	if err != nil {
		return err
	}
	if err := f.store.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
