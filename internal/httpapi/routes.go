package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Thechi2000/were-legends/internal/hub"
	"github.com/Thechi2000/were-legends/internal/session"
	"github.com/Thechi2000/were-legends/internal/ws"
)

type Options struct {
	// BaseURI prefixes every game route. Empty mounts them at the root.
	BaseURI string
	// LongPollTimeout caps the wait a client may ask for on /updates.
	// Zero makes every poll return immediately.
	LongPollTimeout time.Duration
}

type Server struct {
	hub      *hub.Hub
	issuer   *session.Issuer
	log      *zap.Logger
	longPoll time.Duration
}

func SetupRoutes(h *hub.Hub, iss *session.Issuer, log *zap.Logger, opts Options) http.Handler {
	s := &Server{hub: h, issuer: iss, log: log.Named("http"), longPoll: opts.LongPollTimeout}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)

	api := chi.NewRouter()
	api.Post("/login", s.Login)
	api.Get("/updates/ws", ws.Handler(h, iss, s.log))
	api.With(s.optionalSession).Get("/game/{id}", s.GameStatus)

	api.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/updates", s.Updates)
		r.Get("/game", s.CurrentGame)
		r.Post("/game", s.CreateGame)
		r.Post("/game/{id}/join", s.JoinGame)
		r.Post("/game/quit", s.QuitGame)
		r.Post("/game/start", s.StartGame)
		r.Post("/game/end", s.EndGame)
		r.Post("/game/votes", s.Vote)
		r.Post("/game/update", s.UpdateGame)
	})

	if opts.BaseURI == "" {
		r.Mount("/", api)
	} else {
		r.Mount(opts.BaseURI, api)
	}
	return r
}
