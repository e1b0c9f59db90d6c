package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Thechi2000/were-legends/internal/apperr"
	"github.com/Thechi2000/were-legends/internal/session"
	"github.com/Thechi2000/were-legends/pkg/types"
)

type loginRequest struct {
	Name string `json:"name"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login issues a token for the requested name and makes sure a mailbox
// exists for it. Logging in again under the same name keeps the mailbox.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	name, err := session.NormalizeName(req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := s.issuer.Issue(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.hub.GetOrCreateMailbox(name)
	s.log.Info("login", zap.String("player", name))

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// Updates drains the caller's mailbox. With ?wait=<duration> it holds the
// request until something arrives, the wait elapses or the client leaves.
func (s *Server) Updates(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	mb, ok := s.hub.Mailbox(sess.Name)
	if !ok {
		s.writeError(w, r, apperr.ErrNotFound)
		return
	}

	if wait := s.pollWait(r); wait > 0 && mb.Len() == 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
	poll:
		for mb.Len() == 0 {
			select {
			case <-mb.Ready():
			case <-timer.C:
				break poll
			case <-r.Context().Done():
				return
			}
		}
	}

	out := mb.Drain()
	if out == nil {
		out = []types.Directive{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) pollWait(r *http.Request) time.Duration {
	raw := r.URL.Query().Get("wait")
	if raw == "" || s.longPoll <= 0 {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0
	}
	return min(d, s.longPoll)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
