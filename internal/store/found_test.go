package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
)

func TestCreateAndGetFoundItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	reporter := int64(7)
	item, err := CreateFoundItem(ctx, database, NewFoundItem{
		Name:       "Black wallet",
		ImageURL:   "https://i.example/wallet.jpg",
		Location:   model.PickedLocation{Lat: 52.4862, Lng: -1.8904},
		ReporterID: &reporter,
	})
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Black wallet", item.Name)
	assert.Equal(t, model.ItemStatusOpen, item.Status)
	require.NotNil(t, item.Lat)
	require.NotNil(t, item.Lng)
	assert.InDelta(t, 52.4862, *item.Lat, 1e-9)
	assert.InDelta(t, -1.8904, *item.Lng, 1e-9)
	require.NotNil(t, item.ReporterID)
	assert.Equal(t, int64(7), *item.ReporterID)

	missing, err := GetFoundItem(ctx, database, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListFoundItemsToleratesBadCoordinates(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateFoundItem(ctx, database, NewFoundItem{Name: "Keys", Location: model.PickedLocation{Lat: 1, Lng: 2}})
	require.NoError(t, err)

	// Rows written by other tools.
	_, err = database.ExecContext(ctx,
		`INSERT INTO found_items (id, name, lat, lng) VALUES ('a', 'No coords', NULL, NULL),
		 ('b', 'Text coords', 'north', 'west'), ('c', 'Int coords', 3, 4)`)
	require.NoError(t, err)

	items, err := ListFoundItems(ctx, database, Filter{})
	require.NoError(t, err)
	require.Len(t, items, 4)

	byName := map[string]model.FoundItem{}
	for _, it := range items {
		byName[it.Name] = it
	}
	assert.Nil(t, byName["No coords"].Lat)
	assert.Nil(t, byName["Text coords"].Lat)
	assert.Nil(t, byName["Text coords"].Lng)
	require.NotNil(t, byName["Int coords"].Lat)
	assert.Equal(t, 3.0, *byName["Int coords"].Lat)
}

func TestListFoundItemsFilter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice, bob := int64(1), int64(2)
	first, _ := CreateFoundItem(ctx, database, NewFoundItem{Name: "Umbrella", ReporterID: &alice})
	CreateFoundItem(ctx, database, NewFoundItem{Name: "Scarf", ReporterID: &bob})

	ok, err := SetFoundItemStatus(ctx, database, first.ID, model.ItemStatusClaimed)
	require.NoError(t, err)
	assert.True(t, ok)

	open, err := ListFoundItems(ctx, database, Filter{Status: model.ItemStatusOpen})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Scarf", open[0].Name)

	mine, err := ListFoundItems(ctx, database, Filter{ReporterID: alice})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Umbrella", mine[0].Name)

	ok, err = SetFoundItemStatus(ctx, database, "nope", model.ItemStatusClosed)
	require.NoError(t, err)
	assert.False(t, ok)
}
