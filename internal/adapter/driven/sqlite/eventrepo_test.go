package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/safehub/internal/domain/model"
)

// seedSafe registers a safe so event rows satisfy the foreign key.
func seedSafe(t *testing.T, db *DB, name string) {
	t.Helper()
	require.NoError(t, NewSafeRepo(db).Add(context.Background(), model.Safe{
		Name:      name,
		CreatedAt: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}))
}

func makeEvent(safeName string, button model.Button, state model.LockState, pressedAt time.Time) model.PanelEvent {
	return model.PanelEvent{
		SafeName:  safeName,
		Button:    button,
		State:     state,
		Display:   model.DisplayBlank,
		Locked:    state.Locked(),
		PressedAt: pressedAt,
	}
}

func TestPanelEventRepo_AppendAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPanelEventRepo(db)
	ctx := context.Background()
	seedSafe(t, db, "vault-1")

	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, makeEvent("vault-1", model.ButtonKey, model.StateEnteringCode, base)))
	require.NoError(t, repo.Append(ctx, makeEvent("vault-1", model.ButtonDigit1, model.StateEnteringCode, base.Add(time.Second))))
	require.NoError(t, repo.Append(ctx, makeEvent("vault-1", model.ButtonDigit2, model.StateEnteringCode, base.Add(2*time.Second))))

	events, err := repo.ListBySafe(ctx, "vault-1", 10)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Most recent first.
	assert.Equal(t, model.ButtonDigit2, events[0].Button)
	assert.Equal(t, model.ButtonDigit1, events[1].Button)
	assert.Equal(t, model.ButtonKey, events[2].Button)

	assert.Equal(t, model.StateEnteringCode, events[0].State)
	assert.Equal(t, "      ", events[0].Display)
	assert.True(t, events[0].Locked)
	assert.NotZero(t, events[0].ID)
}

func TestPanelEventRepo_ListBySafe_Limit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPanelEventRepo(db)
	ctx := context.Background()
	seedSafe(t, db, "vault-1")

	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, makeEvent("vault-1", model.ButtonLock, model.StateIdleLocked, base.Add(time.Duration(i)*time.Second))))
	}

	events, err := repo.ListBySafe(ctx, "vault-1", 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestPanelEventRepo_ListBySafe_FiltersBySafe(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPanelEventRepo(db)
	ctx := context.Background()
	seedSafe(t, db, "vault-1")
	seedSafe(t, db, "vault-2")

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, makeEvent("vault-1", model.ButtonKey, model.StateEnteringCode, now)))
	require.NoError(t, repo.Append(ctx, makeEvent("vault-2", model.ButtonLock, model.StateIdleLocked, now)))

	events, err := repo.ListBySafe(ctx, "vault-1", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "vault-1", events[0].SafeName)
}

func TestPanelEventRepo_CountBySafe(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPanelEventRepo(db)
	ctx := context.Background()
	seedSafe(t, db, "vault-1")

	count, err := repo.CountBySafe(ctx, "vault-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, makeEvent("vault-1", model.ButtonKey, model.StateEnteringCode, now)))
	require.NoError(t, repo.Append(ctx, makeEvent("vault-1", model.ButtonDigit1, model.StateEnteringCode, now.Add(time.Second))))

	count, err = repo.CountBySafe(ctx, "vault-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPanelEventRepo_PurgeBefore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPanelEventRepo(db)
	ctx := context.Background()
	seedSafe(t, db, "vault-1")

	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, makeEvent("vault-1", model.ButtonKey, model.StateEnteringCode, old)))
	require.NoError(t, repo.Append(ctx, makeEvent("vault-1", model.ButtonLock, model.StateIdleLocked, recent)))

	removed, err := repo.PurgeBefore(ctx, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	events, err := repo.ListBySafe(ctx, "vault-1", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.ButtonLock, events[0].Button)
}
