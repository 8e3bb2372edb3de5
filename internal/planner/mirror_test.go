package planner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelplan/reelplan/internal/planner"
	"github.com/reelplan/reelplan/internal/store/local"
)

// mirroredFixture wires a facade over a MirroredStore with a fake remote.
func mirroredFixture(t *testing.T, s planner.SessionSource, rem *fakeRemote) (*planner.Facade, *planner.MirrorQueue, *local.Store) {
	t.Helper()
	kv := newKV(t)
	localStore := planner.NewLocalOnlyStore(kv)
	queue := planner.NewMirrorQueue(rem, nil, 16)
	queue.Start(context.Background())
	store := planner.NewMirroredStore(localStore, rem, queue, nil)
	return planner.NewFacade(s, kv, store, nil), queue, kv
}

func TestMirroredCreate_ReachesRemote(t *testing.T) {
	rem := newFakeRemote()
	f, queue, _ := mirroredFixture(t, userSession("u1"), rem)
	ctx := context.Background()

	id, err := f.Create(ctx, draft("2025-03-01", "19:00"))
	require.NoError(t, err)

	queue.Stop() // drain the mirror queue

	docs := rem.docs["users/u1/calendar"]
	require.Len(t, docs, 1)
	_, ok := docs[id]
	assert.True(t, ok, "remote missing mirrored document %s", id)
}

func TestMirroredCreate_RetriesTransientFailures(t *testing.T) {
	rem := newFakeRemote()
	rem.failures = 2
	f, queue, _ := mirroredFixture(t, userSession("u1"), rem)

	id, err := f.Create(context.Background(), draft("2025-03-01", "19:00"))
	require.NoError(t, err)

	queue.Stop()

	_, ok := rem.docs["users/u1/calendar"][id]
	assert.True(t, ok, "write should succeed after retries")
}

func TestMirroredCreate_RemoteDownStillSucceeds(t *testing.T) {
	rem := newFakeRemote()
	rem.alwaysUp = false
	f, queue, kv := mirroredFixture(t, userSession("u1"), rem)
	ctx := context.Background()

	id, err := f.Create(ctx, draft("2025-03-01", "19:00"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	queue.Stop()

	// Local-only read path (operating-mode flag) still sees the record.
	localFacade := planner.NewFacade(userSession("u1"), kv, planner.NewLocalOnlyStore(kv), nil)
	tasks, err := localFacade.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID)
}

func TestMirroredDelete_ReachesRemote(t *testing.T) {
	rem := newFakeRemote()
	f, queue, _ := mirroredFixture(t, userSession("u1"), rem)
	ctx := context.Background()

	id, err := f.Create(ctx, draft("2025-03-01", "19:00"))
	require.NoError(t, err)
	require.NoError(t, f.Delete(ctx, id))

	queue.Stop()

	assert.Empty(t, rem.docs["users/u1/calendar"])
}

func TestMirroredList_ReadsRemote(t *testing.T) {
	rem := newFakeRemote()
	f, queue, _ := mirroredFixture(t, userSession("u1"), rem)
	ctx := context.Background()

	id, err := f.Create(ctx, draft("2025-03-01", "19:00"))
	require.NoError(t, err)
	queue.Stop()

	tasks, err := f.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID)
}

func TestMirroredList_EmptyWhenRemoteDown(t *testing.T) {
	rem := newFakeRemote()
	f, queue, _ := mirroredFixture(t, userSession("u1"), rem)
	defer queue.Stop()

	rem.alwaysUp = false
	tasks, err := f.List(context.Background())
	require.NoError(t, err, "remote unavailability must not surface as an error")
	assert.Empty(t, tasks)
}

func TestMirrored_GuestNeverTouchesRemote(t *testing.T) {
	rem := newFakeRemote()
	f, queue, _ := mirroredFixture(t, guestSession(), rem)
	ctx := context.Background()

	id, err := f.Create(ctx, draft("2025-03-01", "19:00"))
	require.NoError(t, err)

	tasks, err := f.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	require.NoError(t, f.Delete(ctx, id))
	queue.Stop()

	assert.Zero(t, rem.calls, "remote store must never be called for a guest owner")
}

func TestMirrorQueue_FullQueueDropsWithoutBlocking(t *testing.T) {
	rem := newFakeRemote()
	rem.alwaysUp = false
	// Not started: nothing drains, so the second create overflows.
	queue := planner.NewMirrorQueue(rem, nil, 1)

	kv := newKV(t)
	store := planner.NewMirroredStore(planner.NewLocalOnlyStore(kv), rem, queue, nil)
	f := planner.NewFacade(userSession("u1"), kv, store, nil)
	ctx := context.Background()

	_, err := f.Create(ctx, draft("2025-03-01", "09:00"))
	require.NoError(t, err)
	_, err = f.Create(ctx, draft("2025-03-01", "10:00"))
	require.NoError(t, err, "a full mirror queue must not fail the create")
}
