package imagehost

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/store"
)

// Local keeps photos in the service's own database and serves them from
// /photos/{id}.
type Local struct {
	DB        *sql.DB
	PublicURL string
}

// NewLocal creates a database-backed uploader. publicURL is the externally
// reachable base URL of this service.
func NewLocal(db *sql.DB, publicURL string) *Local {
	return &Local{DB: db, PublicURL: strings.TrimRight(publicURL, "/")}
}

// Upload stores data and returns its URL.
func (h *Local) Upload(ctx context.Context, _ string, data []byte) (string, error) {
	mime, ok := imaging.Sniff(data)
	if !ok {
		return "", &UploadError{Reason: "unsupported image type " + mime}
	}
	id, err := store.CreatePhoto(ctx, h.DB, data, mime)
	if err != nil {
		return "", fmt.Errorf("storing photo: %w", err)
	}
	return h.PublicURL + "/photos/" + id, nil
}
