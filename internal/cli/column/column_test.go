package column

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnotes/shipnotes/internal/app"
	"github.com/shipnotes/shipnotes/internal/services/event"
	"github.com/shipnotes/shipnotes/internal/testutil"
)

func setupBoard(t *testing.T) *app.App {
	t.Helper()
	a := testutil.SetupTestApp(t, nil)
	ctx := context.Background()

	released := "released"
	require.NoError(t, a.Statuses.SetCategoryMapping(ctx, 3, &released))
	for _, e := range []event.CreateEventRequest{
		{Title: "Search", StatusID: 2},
		{Title: "Dark mode", StatusID: 2},
		{Title: "v1.0", StatusID: 3},
	} {
		_, err := a.Events.CreateEvent(ctx, e)
		require.NoError(t, err)
	}
	return a
}

func TestListColumns_Human(t *testing.T) {
	a := setupBoard(t)

	res := testutil.ExecuteCLICommand(t, a, ListCmd())
	require.NoError(t, res.Err)

	assert.Contains(t, res.Stdout, "Board:")
	assert.Contains(t, res.Stdout, "0. Backlogs (ID: 1) [reserved] · 0 events\n")
	assert.Contains(t, res.Stdout, "1. Proposed (ID: 2) · 2 events\n")
	assert.Contains(t, res.Stdout, "2. Release (ID: 3) · 1 event → released\n")
	assert.Contains(t, res.Stdout, "3 events in total")
}

func TestListColumns_JSON(t *testing.T) {
	a := setupBoard(t)

	res := testutil.ExecuteCLICommand(t, a, ListCmd(), "--json")
	require.NoError(t, res.Err)

	data := testutil.ParseJSON(t, res.Stdout)["data"].([]any)
	require.Len(t, data, 4)

	release := data[2].(map[string]any)
	assert.Equal(t, float64(1), release["count"])
	assert.Equal(t, "released", release["category_id"])
	assert.Equal(t, "Release", release["status"].(map[string]any)["name"])

	backlogs := data[0].(map[string]any)
	assert.Nil(t, backlogs["category_id"])
}

func TestListColumns_QuietFollowsOrder(t *testing.T) {
	a := setupBoard(t)
	_, err := a.Statuses.ReorderStatus(context.Background(), 4, 1, "before")
	require.NoError(t, err)

	res := testutil.ExecuteCLICommand(t, a, ListCmd(), "--quiet")
	require.NoError(t, res.Err)
	assert.Equal(t, "4\n1\n2\n3\n", res.Stdout)
}

func TestListColumns_ReflectsChanges(t *testing.T) {
	a := setupBoard(t)

	res := testutil.ExecuteCLICommand(t, a, ListCmd())
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "1. Proposed (ID: 2) · 2 events")

	_, err := a.Events.MoveEvent(context.Background(), 1, 3)
	require.NoError(t, err)

	res = testutil.ExecuteCLICommand(t, a, ListCmd())
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "1. Proposed (ID: 2) · 1 event\n")
	assert.Contains(t, res.Stdout, "2. Release (ID: 3) · 2 events → released")
}

func TestPluralEvents(t *testing.T) {
	assert.Equal(t, "0 events in total", pluralEvents(0))
	assert.Equal(t, "1 event in total", pluralEvents(1))
	assert.Equal(t, "12 events in total", pluralEvents(12))
}
