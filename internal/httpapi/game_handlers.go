package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Thechi2000/were-legends/internal/apperr"
	"github.com/Thechi2000/were-legends/internal/game"
	"github.com/Thechi2000/were-legends/internal/session"
	"github.com/Thechi2000/were-legends/pkg/types"
)

type createGameResponse struct {
	UUID string `json:"uuid"`
}

type updateRequest struct {
	GameTime *float64 `json:"game_time"`
}

type updateResponse struct {
	Applied bool `json:"applied"`
}

func callerName(r *http.Request) string {
	sess, _ := session.FromContext(r.Context())
	return sess.Name
}

// currentGame resolves the game the caller belongs to. The hub lock is
// released before the game is used.
func (s *Server) currentGame(r *http.Request) (uuid.UUID, *game.Game, error) {
	id, g, ok := s.hub.FindGameByPlayer(callerName(r))
	if !ok {
		return uuid.Nil, nil, apperr.ErrNotInGame
	}
	return id, g, nil
}

func (s *Server) CreateGame(w http.ResponseWriter, r *http.Request) {
	id, _, err := s.hub.CreateGameFor(callerName(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, createGameResponse{UUID: id.String()})
}

func (s *Server) JoinGame(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, apperr.ErrNotFound)
		return
	}
	if _, err := s.hub.JoinGame(id, callerName(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QuitGame leaves the caller's game and disposes of it once empty.
func (s *Server) QuitGame(w http.ResponseWriter, r *http.Request) {
	id, g, err := s.currentGame(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := g.RemovePlayer(callerName(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.hub.TryRemoveGame(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) StartGame(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, (*game.Game).Start)
}

func (s *Server) EndGame(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, (*game.Game).End)
}

func (s *Server) withGame(w http.ResponseWriter, r *http.Request, op func(*game.Game) error) {
	_, g, err := s.currentGame(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := op(g); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) Vote(w http.ResponseWriter, r *http.Request) {
	var ballot types.Ballot
	if err := decodeJSON(r, &ballot); err != nil {
		s.writeError(w, r, err)
		return
	}
	for name, role := range ballot {
		if !role.Valid() {
			s.writeError(w, r, apperr.BadRequest("unknown role for %s", name))
			return
		}
	}

	_, g, err := s.currentGame(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := g.AddBallot(callerName(r), ballot); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateGame feeds an externally observed match time into the caller's game.
// The reply says whether the sample was newer than the last one applied.
func (s *Server) UpdateGame(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.GameTime == nil || *req.GameTime < 0 {
		s.writeError(w, r, apperr.BadRequest("game_time must be a non-negative number"))
		return
	}

	_, g, err := s.currentGame(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	applied, err := g.Tick(*req.GameTime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Debug("external sample",
		zap.Stringer("game", g.ID()),
		zap.Float64("game_time", *req.GameTime),
		zap.Bool("applied", applied),
	)
	writeJSON(w, http.StatusOK, updateResponse{Applied: applied})
}

// GameStatus is public without a bearer. With one, the caller must be a
// member and also gets their own role view.
func (s *Server) GameStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, apperr.ErrNotFound)
		return
	}
	g, ok := s.hub.FindGameByID(id)
	if !ok {
		s.writeError(w, r, apperr.ErrNotFound)
		return
	}

	sess, authed := session.FromContext(r.Context())
	if !authed {
		writeJSON(w, http.StatusOK, g.PublicStatus())
		return
	}
	status, err := g.PlayerStatus(sess.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) CurrentGame(w http.ResponseWriter, r *http.Request) {
	_, g, ok := s.hub.FindGameByPlayer(callerName(r))
	if !ok {
		s.writeError(w, r, apperr.ErrNotFound)
		return
	}
	status, err := g.PlayerStatus(callerName(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
