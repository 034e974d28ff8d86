package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/vovakirdan/gemcrush/internal/match3"
	"github.com/vovakirdan/gemcrush/internal/storage"
)

const (
	maxBoardSide     = 64
	maxPointsPerTile = 1000
	maxBodyBytes     = 1 << 16

	// ScoreMode is the mode name recorded for sessions played over HTTP.
	ScoreMode = "api"
)

var errNoStore = errors.New("httpapi: score store not configured")

// statusCode maps an error to an HTTP status.
func statusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, errSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errTooManySessions), errors.Is(err, errNoStore):
		return http.StatusServiceUnavailable
	case errors.Is(err, errBadBody),
		errors.Is(err, match3.ErrEmptyGrid),
		errors.Is(err, match3.ErrTooFewGemTypes),
		errors.Is(err, match3.ErrTooManyGemTypes):
		return http.StatusBadRequest
	case errors.Is(err, match3.ErrInvalidCoordinate),
		errors.Is(err, match3.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Client went away, nothing to do
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     err.Error(),
		RequestID: chimid.GetReqID(r.Context()),
	})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// session resolves the {id} URL parameter.
func (s *Server) session(r *http.Request) (*Session, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", errSessionNotFound, id)
	}
	return s.sessions.Get(id)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg := match3.Config{
		Width:         s.defaults.Board.Width,
		Height:        s.defaults.Board.Height,
		GemTypes:      s.defaults.Rules.GemTypes,
		PointsPerTile: s.defaults.Rules.PointsPerTile,
		Seed:          rand.Uint64(),
	}
	if req.Width != 0 {
		cfg.Width = req.Width
	}
	if req.Height != 0 {
		cfg.Height = req.Height
	}
	if req.Gems != 0 {
		cfg.GemTypes = req.Gems
	}
	if req.PointsPerTile != 0 {
		cfg.PointsPerTile = req.PointsPerTile
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	if cfg.Width > maxBoardSide || cfg.Height > maxBoardSide {
		s.writeError(w, r, fmt.Errorf("%w: board sides are limited to %d", errBadBody, maxBoardSide))
		return
	}
	if cfg.PointsPerTile > maxPointsPerTile {
		s.writeError(w, r, fmt.Errorf("%w: points_per_tile is limited to %d", errBadBody, maxPointsPerTile))
		return
	}

	sess, err := s.sessions.Create(cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"gems", cfg.GemTypes, "seed", cfg.Seed)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	w.Header().Set("Location", "/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, newSessionDTO(sess))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, http.StatusOK, newSessionDTO(sess))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.A == nil || req.B == nil {
		s.writeError(w, r, fmt.Errorf("%w: a and b are required", errBadBody))
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	res := sess.Engine.AttemptMove(*req.A, *req.B)

	status := http.StatusOK
	if res.Outcome == match3.OutcomeRejected {
		status = statusCode(res.Reason)
	}
	writeJSON(w, status, moveResponse{
		Result:  newResultDTO(res),
		Events:  newEventDTOs(sess.Events.Drain()),
		Session: newSessionDTO(sess),
	})
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req tapRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.X == nil || req.Y == nil {
		s.writeError(w, r, fmt.Errorf("%w: x and y are required", errBadBody))
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	res := sess.Engine.Tap(match3.C(*req.X, *req.Y))
	if res.Outcome == match3.OutcomePending {
		res = sess.Engine.Resolve()
	}

	status := http.StatusOK
	if res.Outcome == match3.OutcomeRejected && errors.Is(res.Reason, match3.ErrInvalidCoordinate) {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, moveResponse{
		Result:  newResultDTO(res),
		Events:  newEventDTOs(sess.Events.Drain()),
		Session: newSessionDTO(sess),
	})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.mu.Lock()
	moves := match3.ValidMoves(sess.Engine.Grid())
	sess.mu.Unlock()

	if len(moves) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:     "no valid move, shuffle the board",
			RequestID: chimid.GetReqID(r.Context()),
		})
		return
	}
	best := moves[0]
	for _, m := range moves[1:] {
		if m.Size > best.Size {
			best = m
		}
	}
	writeJSON(w, http.StatusOK, best)
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.Engine.Shuffle(); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Events.Drain()
	writeJSON(w, http.StatusOK, newSessionDTO(sess))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Delete(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.finish(sess, "deleted")
	w.WriteHeader(http.StatusNoContent)
}

// finish records the score of a session that left the store.
func (s *Server) finish(sess *Session, why string) {
	stats := sess.Engine.Stats()
	s.logger.Info("session closed", "id", sess.ID, "reason", why, "score", stats.Score, "moves", stats.Moves)
	if s.store == nil || stats.Score <= 0 {
		return
	}
	_, err := s.store.SaveScore(storage.ScoreEntry{
		SessionID:  sess.ID,
		Mode:       ScoreMode,
		Score:      stats.Score,
		Moves:      stats.Moves - stats.Reverted,
		MaxCascade: stats.MaxDepth,
		Seed:       sess.Engine.Config().Seed,
	})
	if err != nil {
		s.logger.Warn("could not save score", "id", sess.ID, "err", err)
	}
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errNoStore)
		return
	}
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = ScoreMode
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be 1..100", errBadBody))
			return
		}
		limit = n
	}

	scores, err := s.store.TopScores(mode, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if scores == nil {
		scores = []storage.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, scores)
}
