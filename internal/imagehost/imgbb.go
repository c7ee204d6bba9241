package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// ImgBB uploads photos to an ImgBB-compatible API.
type ImgBB struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewImgBB creates an ImgBB uploader. baseURL is normally
// https://api.imgbb.com; tests point it at an httptest server.
func NewImgBB(baseURL, apiKey string, logger *slog.Logger) *ImgBB {
	return &ImgBB{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
		log:        logger.With("adapter", "imgbb"),
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends data as the multipart field "image" and returns the hosted URL.
func (h *ImgBB) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if h.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("imgbb: create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("imgbb: write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("imgbb: close multipart: %w", err)
	}

	reqURL := h.baseURL + "/1/upload?key=" + url.QueryEscape(h.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &body)
	if err != nil {
		return "", fmt.Errorf("imgbb: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.log.ErrorContext(ctx, "imgbb request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("imgbb: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("imgbb: read body: %w", err)
	}

	var parsed imgbbResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &UploadError{Status: resp.StatusCode, Reason: fmt.Sprintf("unexpected response (status %d)", resp.StatusCode)}
	}

	if !parsed.Success || parsed.Data.URL == "" {
		reason := parsed.Error.Message
		if reason == "" {
			reason = "ImgBB upload failed"
		}
		return "", &UploadError{Status: resp.StatusCode, Reason: reason}
	}

	h.log.DebugContext(ctx, "imgbb upload", slog.String("url", parsed.Data.URL), slog.Int("bytes", len(data)))
	return parsed.Data.URL, nil
}
