package matcher

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doMatch(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/match", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandlerMatch(t *testing.T) {
	h := NewRouter(NewService(walletSource(), nil, 0))

	w := doMatch(t, h, `{"itemId":"f1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, key := range []string{"decision", "given_id", "matched_id", "confidence", "candidates", "reasons"} {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, "match", body["decision"])
	assert.Equal(t, "l2", body["matched_id"])
}

func TestHandlerErrors(t *testing.T) {
	h := NewRouter(NewService(walletSource(), nil, 0))

	w := doMatch(t, h, `{"itemId":"missing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"detail"`)

	w = doMatch(t, h, `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doMatch(t, h, `{`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/match", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
