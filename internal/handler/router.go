package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mvcastro/quemsoueu/internal/handler/play"
	"github.com/mvcastro/quemsoueu/internal/handler/session"
	"github.com/mvcastro/quemsoueu/internal/handler/stream"
	middlewarePkg "github.com/mvcastro/quemsoueu/internal/middleware"
	gameservice "github.com/mvcastro/quemsoueu/internal/service/game"
	"github.com/mvcastro/quemsoueu/pkg/utils"
	"github.com/mvcastro/quemsoueu/web"
)

// NewRouter wires HTTP routes to the game service.
func NewRouter(gameSvc *gameservice.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	sessionHandler := session.New(gameSvc)
	playHandler := play.New(gameSvc)
	socketHandler := play.NewSocket(gameSvc)
	streamHandler := stream.New(gameSvc)

	r.Route("/api", func(api chi.Router) {
		sessionHandler.RegisterRoutes(api)
		playHandler.RegisterRoutes(api)
		socketHandler.RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	r.Handle("/*", web.Handler())

	return r
}
