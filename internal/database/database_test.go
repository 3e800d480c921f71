package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnotes/shipnotes/internal/models"
)

func TestInitDB_SeedsDefaultWorkflow(t *testing.T) {
	db := setupTestDB(t)
	q := New(db)

	statuses, err := q.ListStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 4)

	names := []string{}
	for i, s := range statuses {
		assert.Equal(t, i, s.Position, "positions should be dense from 0")
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Backlogs", "Proposed", "Release", "Archived"}, names)
	assert.True(t, statuses[0].Reserved)
	assert.False(t, statuses[1].Reserved)
	assert.True(t, statuses[3].Reserved)
}

func TestInitDB_CustomSeedAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "shipnotes.db")
	seed := []models.SeedStatus{{Name: "Inbox", Reserved: true}, {Name: "Done"}}

	db, err := InitDB(ctx, path, seed)
	require.NoError(t, err)
	_, err = New(db).CreateStatus(ctx, CreateStatusParams{Name: "Later", Position: 2})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// reopening must not seed again
	db, err = InitDB(ctx, path, seed)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	count, err := New(db).CountStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestStatusName_UniqueConstraint(t *testing.T) {
	db := setupTestDB(t)
	q := New(db)
	ctx := context.Background()

	_, err := q.CreateStatus(ctx, CreateStatusParams{Name: "Proposed", Position: 10})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "duplicate name should be a unique violation, got %v", err)

	// case-sensitive: a different casing is a different name
	_, err = q.CreateStatus(ctx, CreateStatusParams{Name: "proposed", Position: 10})
	assert.NoError(t, err)
}

func TestStatusPosition_UniqueConstraint(t *testing.T) {
	db := setupTestDB(t)
	q := New(db)

	_, err := q.CreateStatus(context.Background(), CreateStatusParams{Name: "Clash", Position: 1})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestParkStatusPositions(t *testing.T) {
	db := setupTestDB(t)
	q := New(db)
	ctx := context.Background()

	require.NoError(t, q.ParkStatusPositions(ctx))
	statuses, err := q.ListStatuses(ctx)
	require.NoError(t, err)
	for _, s := range statuses {
		assert.Less(t, s.Position, 0)
	}

	next, err := q.NextStatusPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}

func TestNextStatusPosition_Empty(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, "DELETE FROM statuses")
	require.NoError(t, err)

	next, err := New(db).NextStatusPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}

func TestExclusiveMapping_UniqueIndex(t *testing.T) {
	db := setupTestDB(t)
	q := New(db)
	ctx := context.Background()

	release := statusID(t, q, "Release")
	proposed := statusID(t, q, "Proposed")

	require.NoError(t, q.UpsertMapping(ctx, models.CategoryMapping{StatusID: release, CategoryID: "released", Exclusive: true}))

	err := q.UpsertMapping(ctx, models.CategoryMapping{StatusID: proposed, CategoryID: "released", Exclusive: true})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	holders, err := q.ListCategoryHolders(ctx, "released")
	require.NoError(t, err)
	assert.Equal(t, []int{release}, holders)

	// non-exclusive categories accept many statuses
	require.NoError(t, q.UpsertMapping(ctx, models.CategoryMapping{StatusID: proposed, CategoryID: "upcoming"}))
	require.NoError(t, q.UpsertMapping(ctx, models.CategoryMapping{StatusID: statusID(t, q, "Backlogs"), CategoryID: "upcoming"}))

	holders, err = q.ListCategoryHolders(ctx, "upcoming")
	require.NoError(t, err)
	assert.Equal(t, []int{statusID(t, q, "Backlogs"), proposed}, holders)

	holders, err = q.ListCategoryHolders(ctx, "changelog")
	require.NoError(t, err)
	assert.Empty(t, holders)
}

func TestUpsertMapping_Replaces(t *testing.T) {
	db := setupTestDB(t)
	q := New(db)
	ctx := context.Background()
	release := statusID(t, q, "Release")

	require.NoError(t, q.UpsertMapping(ctx, models.CategoryMapping{StatusID: release, CategoryID: "upcoming"}))
	require.NoError(t, q.UpsertMapping(ctx, models.CategoryMapping{StatusID: release, CategoryID: "released", Exclusive: true}))

	m, err := q.GetMapping(ctx, release)
	require.NoError(t, err)
	assert.Equal(t, "released", m.CategoryID)
	assert.True(t, m.Exclusive)

	all, err := q.ListMappings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	existed, err := q.DeleteMapping(ctx, release)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = q.DeleteMapping(ctx, release)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = q.GetMapping(ctx, release)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestDeleteStatus_CascadesMapping(t *testing.T) {
	db := setupTestDB(t)
	q := New(db)
	ctx := context.Background()
	proposed := statusID(t, q, "Proposed")

	require.NoError(t, q.UpsertMapping(ctx, models.CategoryMapping{StatusID: proposed, CategoryID: "upcoming"}))
	require.NoError(t, q.DeleteStatus(ctx, proposed))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM category_mappings").Scan(&n))
	assert.Zero(t, n, "mapping should be cascade-deleted")
}

func TestDeleteStatus_RestrictedByEvents(t *testing.T) {
	db := setupTestDB(t)
	q := New(db)
	ctx := context.Background()
	proposed := statusID(t, q, "Proposed")
	createEvent(t, q, "dark-mode", proposed)

	err := q.DeleteStatus(ctx, proposed)
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err), "expected foreign key violation, got %v", err)
}

func TestEvents_CRUDAndReassign(t *testing.T) {
	db := setupTestDB(t)
	q := New(db)
	ctx := context.Background()
	proposed := statusID(t, q, "Proposed")
	release := statusID(t, q, "Release")

	a := createEvent(t, q, "a", proposed)
	b := createEvent(t, q, "b", proposed)
	createEvent(t, q, "c", release)

	assert.Equal(t, "evt-a", a.PublicID)
	assert.False(t, a.CreatedAt.IsZero())

	n, err := q.CountEventsByStatus(ctx, proposed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, q.UpdateEvent(ctx, UpdateEventParams{ID: b.ID, Title: "b2", Content: "body"}))
	got, err := q.GetEventByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b2", got.Title)
	assert.Equal(t, "body", got.Content)

	moved, err := q.ReassignEvents(ctx, proposed, release)
	require.NoError(t, err)
	assert.EqualValues(t, 2, moved)

	byStatus, err := q.ListEventsByStatus(ctx, release)
	require.NoError(t, err)
	assert.Len(t, byStatus, 3)

	require.NoError(t, q.UpdateEventStatus(ctx, a.ID, proposed))
	require.NoError(t, q.DeleteEvent(ctx, b.ID))

	all, err := q.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = q.GetEventByID(ctx, b.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateEvent_UnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	q := New(db)

	_, err := q.CreateEvent(context.Background(), CreateEventParams{PublicID: "x", Title: "x", StatusID: 999})
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
}

func TestListColumns(t *testing.T) {
	db := setupTestDB(t)
	q := New(db)
	ctx := context.Background()
	proposed := statusID(t, q, "Proposed")
	release := statusID(t, q, "Release")

	createEvent(t, q, "one", proposed)
	createEvent(t, q, "two", proposed)
	createEvent(t, q, "three", release)
	require.NoError(t, q.UpsertMapping(ctx, models.CategoryMapping{StatusID: release, CategoryID: "released", Exclusive: true}))

	columns, err := q.ListColumns(ctx)
	require.NoError(t, err)
	require.Len(t, columns, 4)

	assert.Equal(t, "Backlogs", columns[0].Label)
	assert.Zero(t, columns[0].Count)
	assert.Nil(t, columns[0].Category)

	assert.Equal(t, "Proposed", columns[1].Label)
	assert.Equal(t, 2, columns[1].Count)

	assert.Equal(t, "Release", columns[2].Label)
	assert.Equal(t, 1, columns[2].Count)
	require.NotNil(t, columns[2].Category)
	assert.Equal(t, "released", *columns[2].Category)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := New(tx).CreateStatus(ctx, CreateStatusParams{Name: "Temp", Position: 4}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = New(db).GetStatusByName(ctx, "Temp")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestIsUniqueViolation_OtherErrors(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("UNIQUE constraint failed")))
	assert.False(t, IsForeignKeyViolation(sql.ErrNoRows))
}

func TestOpenReader_MemoryReturnsWriter(t *testing.T) {
	db := setupTestDB(t)
	read, err := OpenReader(context.Background(), MemoryPath, db)
	require.NoError(t, err)
	assert.Same(t, db, read)
}

func TestOpenReader_ReadsBesideOpenWrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shipnotes.db")
	db, err := InitDB(ctx, path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	read, err := OpenReader(ctx, path, db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = read.Close() })

	// holds the only writer connection until rolled back
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	_, err = New(tx).CreateStatus(ctx, CreateStatusParams{Name: "Pending", Position: 4})
	require.NoError(t, err)

	readCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	columns, err := New(read).ListColumns(readCtx)
	require.NoError(t, err)
	assert.Len(t, columns, 4, "uncommitted status is not visible")

	_, err = New(read).CreateStatus(readCtx, CreateStatusParams{Name: "Nope", Position: 9})
	assert.Error(t, err, "read pool refuses writes")
}

// ============================================================================
// HELPERS
// ============================================================================

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(context.Background(), MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func statusID(t *testing.T, q *Queries, name string) int {
	t.Helper()
	s, err := q.GetStatusByName(context.Background(), name)
	require.NoError(t, err)
	return s.ID
}

func createEvent(t *testing.T, q *Queries, slug string, status int) *models.Event {
	t.Helper()
	e, err := q.CreateEvent(context.Background(), CreateEventParams{
		PublicID: "evt-" + slug,
		Title:    slug,
		StatusID: status,
	})
	require.NoError(t, err)
	return e
}
