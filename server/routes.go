package server

import (
	"net/http"

	"github.com/gotoolcall/handlers"
	"github.com/gotoolcall/logger"
	"github.com/gotoolcall/protocol"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

func SetupRoutes(p *protocol.Protocol, log *logger.Logger) *chi.Mux {
	r := chi.NewRouter()

	// standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Post("/rpc", handlers.RPCHandler(p, log))

	r.Route("/api", func(r chi.Router) {
		r.Post("/messages/process", handlers.HandleProcessMessage(log))
		r.Post("/tools/format", handlers.HandleFormatResult)
	})

	return r
}
