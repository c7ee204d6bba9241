package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
)

func TestCreateAndGetLostItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateLostItem(ctx, database, NewLostItem{
		Name:        "Wallet",
		Description: "Black leather wallet with student card",
		Color:       "black",
		Location:    "University of Birmingham",
	})
	require.NoError(t, err)

	got, err := GetLostItem(ctx, database, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Black leather wallet with student card", got.Description)
	assert.Equal(t, "black", got.Color)
	assert.Equal(t, "University of Birmingham", got.Location)
	assert.Equal(t, model.ItemStatusOpen, got.Status)
	assert.Nil(t, got.ReporterID)
}

func TestListLostItemsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := CreateLostItem(ctx, database, NewLostItem{Name: name})
		require.NoError(t, err)
	}

	items, err := ListLostItems(ctx, database, Filter{NewestFirst: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "third", items[0].Name)
	assert.Equal(t, "second", items[1].Name)

	ok, err := SetLostItemStatus(ctx, database, items[0].ID, model.ItemStatusClosed)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPhotoRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	id, err := CreatePhoto(ctx, database, []byte("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)

	data, mime, err := GetPhoto(ctx, database, id)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
	assert.Equal(t, "image/jpeg", mime)

	data, _, err = GetPhoto(ctx, database, "missing")
	require.NoError(t, err)
	assert.Nil(t, data)
}
