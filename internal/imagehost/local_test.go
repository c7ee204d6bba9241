package imagehost

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/store"
)

func TestLocalUploadRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	h := NewLocal(database, "http://lf.test/")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	url, err := h.Upload(context.Background(), "p.png", buf.Bytes())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://lf.test/photos/"), url)

	id := strings.TrimPrefix(url, "http://lf.test/photos/")
	data, mime, err := store.GetPhoto(context.Background(), database, id)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, buf.Bytes(), data)
}

func TestLocalRejectsNonImages(t *testing.T) {
	h := NewLocal(db.NewTestDB(t), "http://lf.test")

	_, err := h.Upload(context.Background(), "x.txt", []byte("hello"))
	var upErr *UploadError
	assert.True(t, errors.As(err, &upErr))
}
