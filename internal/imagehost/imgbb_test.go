package imagehost

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestImgBBUploadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/upload", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "photo bytes", string(data))
		assert.Equal(t, "found.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"status":200,"data":{"url":"https://i.ibb.co/x/found.jpg"}}`))
	}))
	defer srv.Close()

	h := NewImgBB(srv.URL, "secret", newTestLogger())
	url, err := h.Upload(context.Background(), "found.jpg", []byte("photo bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/x/found.jpg", url)
}

func TestImgBBUploadFailureReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"status":400,"error":{"message":"Invalid API v1 key."}}`))
	}))
	defer srv.Close()

	h := NewImgBB(srv.URL, "bad", newTestLogger())
	_, err := h.Upload(context.Background(), "found.jpg", []byte("x"))

	var upErr *UploadError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, "Invalid API v1 key.", upErr.Reason)
	assert.Equal(t, http.StatusBadRequest, upErr.Status)
}

func TestImgBBUploadNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	h := NewImgBB(srv.URL, "k", newTestLogger())
	_, err := h.Upload(context.Background(), "found.jpg", []byte("x"))

	var upErr *UploadError
	require.True(t, errors.As(err, &upErr))
	assert.Contains(t, upErr.Reason, "502")
}

func TestImgBBMissingKeyMakesNoRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	h := NewImgBB(srv.URL, "", newTestLogger())
	_, err := h.Upload(context.Background(), "found.jpg", []byte("x"))
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.False(t, called)
}
