package matcher

import (
	"context"
	"database/sql"
	"strings"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// Kind tells which collection an item belongs to.
type Kind string

const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

func (k Kind) opposite() Kind {
	if k == KindLost {
		return KindFound
	}
	return KindLost
}

// Item is a report reduced to what the matcher compares.
type Item struct {
	ID    string
	Kind  Kind
	Label string
	Text  string
	Image string
}

// Source gives the matcher access to stored reports.
type Source interface {
	// Item returns the report with id from either collection, or nil.
	Item(ctx context.Context, id string) (*Item, error)
	// Open returns the open reports of one collection, oldest first.
	Open(ctx context.Context, kind Kind) ([]Item, error)
}

// DBSource reads reports from the lostfound database.
type DBSource struct {
	DB *sql.DB
}

func (s DBSource) Item(ctx context.Context, id string) (*Item, error) {
	lost, err := store.GetLostItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if lost != nil {
		it := lostItem(*lost)
		return &it, nil
	}

	found, err := store.GetFoundItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if found != nil {
		it := foundItem(*found)
		return &it, nil
	}
	return nil, nil
}

func (s DBSource) Open(ctx context.Context, kind Kind) ([]Item, error) {
	filter := store.Filter{Status: model.ItemStatusOpen}

	var items []Item
	if kind == KindLost {
		lost, err := store.ListLostItems(ctx, s.DB, filter)
		if err != nil {
			return nil, err
		}
		for _, l := range lost {
			items = append(items, lostItem(l))
		}
		return items, nil
	}

	found, err := store.ListFoundItems(ctx, s.DB, filter)
	if err != nil {
		return nil, err
	}
	for _, f := range found {
		items = append(items, foundItem(f))
	}
	return items, nil
}

func lostItem(l model.LostItem) Item {
	return Item{
		ID:    l.ID,
		Kind:  KindLost,
		Label: l.Name,
		Text:  strings.Join([]string{l.Name, l.Color, l.Description}, " "),
	}
}

func foundItem(f model.FoundItem) Item {
	return Item{
		ID:    f.ID,
		Kind:  KindFound,
		Label: f.Name,
		Text:  f.Name,
		Image: f.ImageURL,
	}
}
