package web

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/imagehost"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
	"github.com/erazemk/lostfound/internal/store"
)

const testJWTSecret = "test-secret"

type stubMatcher struct {
	mu    sync.Mutex
	calls int
}

func (m *stubMatcher) Match(_ context.Context, itemID string) (*model.Verdict, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return &model.Verdict{
		Decision:   model.DecisionMatch,
		GivenID:    itemID,
		Candidates: []model.Candidate{{Rank: 1, CandidateID: "l1", Text: "Black wallet", ClipScore: 0.91}},
	}, nil
}

func (m *stubMatcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type testEnv struct {
	server  *httptest.Server
	client  *http.Client
	db      *sql.DB
	matcher *stubMatcher
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	database := db.NewTestDB(t)
	matcher := &stubMatcher{}

	router, err := NewRouter(database, testJWTSecret, Options{
		TokenTTL:  time.Hour,
		Reports:   report.NewService(database, imagehost.NewLocal(database, ""), matcher),
		Drafts:    report.NewDrafts(time.Hour),
		MapCenter: model.PickedLocation{Lat: 52.4862, Lng: -1.8904},
		MapZoom:   13,
	})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		server:  server,
		client:  &http.Client{Jar: jar},
		db:      database,
		matcher: matcher,
	}
}

func (e *testEnv) signup(t *testing.T, username string) {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+"/signup", url.Values{
		"username": {username},
		"password": {"password1"},
		"confirm":  {"password1"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "/", resp.Request.URL.Path)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

var draftRe = regexp.MustCompile(`name="draft" value="([^"]+)"`)

func draftID(t *testing.T, body string) string {
	t.Helper()
	m := draftRe.FindStringSubmatch(body)
	require.Len(t, m, 2, "no draft id in page")
	return m[1]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHomeShowsReportActionsWhenSignedIn(t *testing.T) {
	env := setupTestServer(t)

	_, body := env.get(t, "/")
	assert.Contains(t, body, "Sign in to report an item")
	assert.NotContains(t, body, `href="/found"`)

	env.signup(t, "alex")
	_, body = env.get(t, "/")
	assert.Contains(t, body, `href="/found"`)
	assert.Contains(t, body, `href="/lost"`)
}

func TestSignupValidation(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.client.PostForm(env.server.URL+"/signup", url.Values{
		"username": {"alex"}, "password": {"short"}, "confirm": {"short"},
	})
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Password must be at least 8 characters.")

	env.signup(t, "alex")

	jar, _ := cookiejar.New(nil)
	second := &http.Client{Jar: jar}
	resp, err = second.PostForm(env.server.URL+"/signup", url.Values{
		"username": {"alex"}, "password": {"password2"}, "confirm": {"password2"},
	})
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "That username is already taken.")
}

func TestReportPagesRequireSession(t *testing.T) {
	env := setupTestServer(t)

	for _, path := range []string{"/found", "/lost", "/profile", "/match/some-draft"} {
		resp, _ := env.get(t, path)
		assert.Equal(t, "/login", resp.Request.URL.Path, path)
	}
}

func TestFoundZeroPhotosRejectedBeforeNetwork(t *testing.T) {
	env := setupTestServer(t)
	env.signup(t, "alex")

	_, page := env.get(t, "/found")
	draft := draftID(t, page)

	resp, err := env.client.PostForm(env.server.URL+"/found", url.Values{
		"draft": {draft},
		"name":  {"Wallet"},
		"lat":   {"52.48"},
		"lng":   {"-1.89"},
	})
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, "/found", resp.Request.URL.Path)
	assert.Contains(t, body, "Please add a photo (upload or take one).")
	assert.Equal(t, 0, env.matcher.Calls())

	items, err := store.ListFoundItems(context.Background(), env.db, store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFoundFlowShowsMatch(t *testing.T) {
	env := setupTestServer(t)
	env.signup(t, "alex")

	_, page := env.get(t, "/found")
	draft := draftID(t, page)
	base := env.server.URL + "/found/drafts/" + draft

	// Two pins; only the last one counts.
	for _, pin := range []string{
		`{"type":"map:pin","lat":1,"lng":1}`,
		`{"type":"map:pin","lat":2,"lng":2}`,
	} {
		resp, err := env.client.Post(base+"/pin", "application/json", strings.NewReader(pin))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photos", "wallet.png")
	require.NoError(t, err)
	fw.Write(pngBytes(t))
	require.NoError(t, mw.Close())

	resp, err := env.client.Post(base+"/photos", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), `"count":1`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = env.client.Get(base + "/photos/0")
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp, err = env.client.PostForm(env.server.URL+"/found", url.Values{
		"draft": {draft},
		"name":  {"Black wallet"},
	})
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, "/match/"+draft, resp.Request.URL.Path)
	assert.Contains(t, body, "We found a match!")
	assert.Contains(t, body, "Black wallet")
	assert.Contains(t, body, "0.91")
	assert.Equal(t, 1, env.matcher.Calls())

	items, err := store.ListFoundItems(context.Background(), env.db, store.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	loc, ok := items[0].Coordinates()
	require.True(t, ok)
	assert.Equal(t, model.PickedLocation{Lat: 2, Lng: 2}, loc)
	assert.True(t, strings.HasPrefix(items[0].ImageURL, "/photos/"))

	// The uploaded photo is served by the local image host.
	resp, err = env.client.Get(env.server.URL + items[0].ImageURL)
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
}

func TestMalformedUploadKeepsDraft(t *testing.T) {
	env := setupTestServer(t)
	env.signup(t, "alex")

	_, page := env.get(t, "/found")
	draft := draftID(t, page)
	assert.Contains(t, page, `action="/found?draft=`+draft+`"`)

	resp, err := env.client.Post(env.server.URL+"/found/drafts/"+draft+"/pin", "application/json",
		strings.NewReader(`{"type":"map:pin","lat":46.05,"lng":14.5}`))
	require.NoError(t, err)
	resp.Body.Close()

	// The closing boundary never arrives.
	body := "--cut\r\nContent-Disposition: form-data; name=\"name\"\r\n\r\nUmbrella"
	resp, err = env.client.Post(env.server.URL+"/found?draft="+draft, "multipart/form-data; boundary=cut", strings.NewReader(body))
	require.NoError(t, err)
	page = readBody(t, resp)

	assert.Contains(t, page, "The upload is too large or malformed.")
	assert.Equal(t, draft, draftID(t, page))
	assert.Contains(t, page, "46.05")
	assert.Equal(t, 0, env.matcher.Calls())
}

func TestDraftsAreOwnedBySubmitter(t *testing.T) {
	owner := setupTestServer(t)
	owner.signup(t, "alex")
	_, page := owner.get(t, "/found")
	draft := draftID(t, page)

	// Same server, different user.
	jar, _ := cookiejar.New(nil)
	intruder := &testEnv{server: owner.server, client: &http.Client{Jar: jar}}
	intruder.signup(t, "sam")

	resp, err := intruder.client.Post(owner.server.URL+"/found/drafts/"+draft+"/pin", "application/json",
		strings.NewReader(`{"type":"map:pin","lat":1,"lng":1}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body := intruder.get(t, "/match/"+draft)
	assert.Contains(t, body, "No match data")
}

func TestMatchWithoutVerdict(t *testing.T) {
	env := setupTestServer(t)

	_, body := env.get(t, "/match")
	assert.Contains(t, body, "No match data")
	assert.Contains(t, body, `href="/"`)
	assert.NotContains(t, body, "candidate-panel")
}

func TestLostSubmit(t *testing.T) {
	env := setupTestServer(t)
	env.signup(t, "alex")

	resp, err := env.client.PostForm(env.server.URL+"/lost", url.Values{"name": {"  "}})
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Please enter item name.")

	resp, err = env.client.PostForm(env.server.URL+"/lost", url.Values{
		"name":        {"Umbrella"},
		"description": {"Blue"},
		"location":    {"Library"},
	})
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Submitted.")
	assert.Equal(t, 0, env.matcher.Calls())

	_, body := env.get(t, "/profile")
	assert.Contains(t, body, "Umbrella")
	assert.Contains(t, body, "Library")
}

func TestMapShowsOnlyNumericCoordinates(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := store.CreateFoundItem(ctx, env.db, store.NewFoundItem{
		Name:     "Keys",
		Location: model.PickedLocation{Lat: 52.45, Lng: -1.93},
	})
	require.NoError(t, err)
	bad, err := store.CreateFoundItem(ctx, env.db, store.NewFoundItem{
		Name:     "Scarf",
		Location: model.PickedLocation{Lat: 1, Lng: 1},
	})
	require.NoError(t, err)
	_, err = env.db.ExecContext(ctx, `UPDATE found_items SET lat = 'north' WHERE id = ?`, bad.ID)
	require.NoError(t, err)

	_, body := env.get(t, "/map")
	assert.Contains(t, body, "Keys")
	assert.NotContains(t, body, "Scarf")
	assert.Contains(t, body, "1 found item on the map.")
}

func TestPickerPage(t *testing.T) {
	env := setupTestServer(t)

	resp, body := env.get(t, "/picker")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "/static/picker.js")
	assert.Contains(t, body, "52.4862")
}

func TestLogoutRevokesToken(t *testing.T) {
	env := setupTestServer(t)
	env.signup(t, "alex")

	serverURL, _ := url.Parse(env.server.URL)
	var token string
	for _, c := range env.client.Jar.Cookies(serverURL) {
		if c.Name == tokenCookie {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)

	resp, err := env.client.PostForm(env.server.URL+"/logout", nil)
	require.NoError(t, err)
	resp.Body.Close()

	noRedirect := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/profile", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: token})
	resp, err = noRedirect.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestStaticAssets(t *testing.T) {
	env := setupTestServer(t)
	for _, name := range []string{"style.css", "form.js", "picker.js", "capture.js", "map.js"} {
		resp, _ := env.get(t, "/static/"+name)
		assert.Equal(t, http.StatusOK, resp.StatusCode, name)
	}
}
