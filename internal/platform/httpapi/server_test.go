package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gemcrush/internal/match3"
	"github.com/vovakirdan/gemcrush/internal/storage"
)

func newTestServer(t *testing.T, store *storage.Store) *Server {
	t.Helper()
	opts := DefaultOptions()
	opts.Store = store
	return New(opts)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createSession(t *testing.T, s *Server, body string) sessionDTO {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/v1/sessions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[sessionDTO](t, rec)
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestServer(t, nil)

	created := createSession(t, s, `{"width":6,"height":5,"gems":4,"seed":9}`)
	assert.Equal(t, 6, created.Board.Width)
	assert.Equal(t, 5, created.Board.Height)
	assert.Len(t, created.Board.Tiles, 5)
	assert.Len(t, created.Board.Text, 5)
	assert.Equal(t, "idle", created.Phase)

	rec := do(t, s, http.MethodGet, "/v1/sessions/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[sessionDTO](t, rec)
	assert.Equal(t, created.Board, got.Board)

	// Same seed, same board.
	again := createSession(t, s, `{"width":6,"height":5,"gems":4,"seed":9}`)
	assert.Equal(t, created.Board, again.Board)
	assert.NotEqual(t, created.ID, again.ID)
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	s := newTestServer(t, nil)

	def := createSession(t, s, "")
	assert.Equal(t, 8, def.Board.Width)
	assert.Equal(t, 8, def.Board.Height)

	tests := []struct {
		name string
		body string
	}{
		{"two gems", `{"gems":2}`},
		{"too many gems", `{"gems":300,"seed":5}`},
		{"huge points", `{"points_per_tile":1000000}`},
		{"too wide", `{"width":500}`},
		{"negative", `{"height":-1}`},
		{"unknown field", `{"colour":"red"}`},
		{"not json", `{`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/sessions", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestUnknownSession(t *testing.T) {
	s := newTestServer(t, nil)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/v1/sessions/nope", "").Code)
	assert.Equal(t, http.StatusNotFound,
		do(t, s, http.MethodGet, "/v1/sessions/2b1c6d4e-8f4a-4b7e-9c1d-0e5f6a7b8c9d", "").Code)
	assert.Equal(t, http.StatusNotFound,
		do(t, s, http.MethodDelete, "/v1/sessions/2b1c6d4e-8f4a-4b7e-9c1d-0e5f6a7b8c9d", "").Code)
}

func TestMoveWithHint(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s, `{"seed":42}`)

	rec := do(t, s, http.MethodGet, "/v1/sessions/"+sess.ID+"/hint", "")
	require.Equal(t, http.StatusOK, rec.Code)
	hint := decode[match3.Move](t, rec)
	require.GreaterOrEqual(t, hint.Size, 3)

	body, err := json.Marshal(map[string]match3.Coord{"a": hint.A, "b": hint.B})
	require.NoError(t, err)
	rec = do(t, s, http.MethodPost, "/v1/sessions/"+sess.ID+"/moves", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[moveResponse](t, rec)
	assert.Equal(t, "resolved", resp.Result.Outcome)
	assert.GreaterOrEqual(t, resp.Result.Depth, 1)
	assert.Positive(t, resp.Result.Points)
	assert.Equal(t, resp.Result.Points, resp.Session.Stats.Score)
	assert.Equal(t, "idle", resp.Session.Phase)

	require.NotEmpty(t, resp.Events)
	assert.Equal(t, "match_found", resp.Events[0].Type)
	assert.Equal(t, "cascade_complete", resp.Events[len(resp.Events)-1].Type)
	for _, ev := range resp.Events {
		assert.NotEqual(t, "cell_changed", ev.Type)
		assert.NotEmpty(t, ev.Text)
	}
}

func TestMoveRejected(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s, `{"seed":1}`)

	rec := do(t, s, http.MethodPost, "/v1/sessions/"+sess.ID+"/moves", `{"a":{"x":0,"y":0},"b":{"x":5,"y":5}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[moveResponse](t, rec)
	assert.Equal(t, "rejected", resp.Result.Outcome)
	assert.NotEmpty(t, resp.Result.Reason)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "move_rejected", resp.Events[0].Type)

	rec = do(t, s, http.MethodPost, "/v1/sessions/"+sess.ID+"/moves", `{"a":{"x":0,"y":0}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/sessions/"+sess.ID+"/moves", `{"a":{"x":-1,"y":0},"b":{"x":0,"y":0}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTapSelectsAndDeselects(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s, `{"seed":3}`)
	path := "/v1/sessions/" + sess.ID + "/taps"

	rec := do(t, s, http.MethodPost, path, `{"x":2,"y":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[moveResponse](t, rec)
	assert.Equal(t, "selected", resp.Result.Outcome)
	require.NotNil(t, resp.Session.Selection)
	assert.Equal(t, match3.C(2, 2), *resp.Session.Selection)

	rec = do(t, s, http.MethodPost, path, `{"x":2,"y":2}`)
	resp = decode[moveResponse](t, rec)
	assert.Equal(t, "deselected", resp.Result.Outcome)
	assert.Nil(t, resp.Session.Selection)

	rec = do(t, s, http.MethodPost, path, `{"x":99,"y":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestShuffle(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s, `{"seed":5}`)

	rec := do(t, s, http.MethodPost, "/v1/sessions/"+sess.ID+"/shuffle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[sessionDTO](t, rec)
	assert.Equal(t, sess.Board.Width, got.Board.Width)
	assert.NotEqual(t, sess.Board.Text, got.Board.Text)
}

func TestDeleteRecordsScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	defer store.Close()

	s := newTestServer(t, store)
	sess := createSession(t, s, `{"seed":42}`)

	hint := decode[match3.Move](t, do(t, s, http.MethodGet, "/v1/sessions/"+sess.ID+"/hint", ""))
	body, _ := json.Marshal(map[string]match3.Coord{"a": hint.A, "b": hint.B})
	move := decode[moveResponse](t, do(t, s, http.MethodPost, "/v1/sessions/"+sess.ID+"/moves", string(body)))

	rec := do(t, s, http.MethodDelete, "/v1/sessions/"+sess.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/v1/sessions/"+sess.ID, "").Code)

	saved, err := store.ScoreBySession(sess.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, move.Session.Stats.Score, saved.Score)
	assert.Equal(t, ScoreMode, saved.Mode)
	assert.Equal(t, uint64(42), saved.Seed)

	rec = do(t, s, http.MethodGet, "/v1/scores?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	scores := decode[[]storage.ScoreEntry](t, rec)
	require.Len(t, scores, 1)
	assert.Equal(t, sess.ID, scores[0].SessionID)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/v1/scores?limit=0", "").Code)
}

func TestScoresWithoutStore(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/v1/scores", "").Code)
}

func TestSessionLimitAndSweep(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSessions = 1
	opts.SessionTTL = time.Minute
	s := New(opts)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.sessions.now = func() time.Time { return now }

	createSession(t, s, "")
	rec := do(t, s, http.MethodPost, "/v1/sessions", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	now = now.Add(30 * time.Second)
	assert.Zero(t, s.Sweep())
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.Zero(t, s.Sessions().Len())

	createSession(t, s, "")
}

func TestHealthAndCompression(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewBufferString(`{"width":32,"height":32}`))
	req.Header.Set("Accept-Encoding", "gzip")
	out := httptest.NewRecorder()
	s.Handler().ServeHTTP(out, req)
	require.Equal(t, http.StatusCreated, out.Code)
	assert.Equal(t, "gzip", out.Header().Get("Content-Encoding"))
}
