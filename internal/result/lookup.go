package result

import (
	"context"
	"database/sql"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// StoreLookup reads reports from the database.
type StoreLookup struct {
	DB *sql.DB
}

func (l StoreLookup) FoundItem(ctx context.Context, id string) (*model.FoundItem, error) {
	return store.GetFoundItem(ctx, l.DB, id)
}

func (l StoreLookup) LostItem(ctx context.Context, id string) (*model.LostItem, error) {
	return store.GetLostItem(ctx, l.DB, id)
}
