package httpserver

import (
	"context"
	"net/http"
	"time"

	"acefreelance/internal/config"
	"acefreelance/internal/handlers"
	"acefreelance/internal/logging"
	"acefreelance/internal/middleware"

	"github.com/go-chi/chi"
)

type Server struct {
	Serv *http.Server
}

func NewRouter(cfg *config.Config, handler *handlers.Server) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(logging.Logg))

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", handler.RegisterUser)
			r.Post("/login", handler.LoginUser)
			r.Post("/forgot-password", handler.ForgotPassword)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(cfg))
				r.Post("/logout", handler.Logout)
				r.Get("/profile", handler.GetProfile)

				r.Get("/tasks", handler.GetAwardedTasks)
				r.Post("/tasks/{taskID}/award", handler.AwardTask)
				r.Post("/tasks/{awardID}/submit", handler.SubmitTask)

				r.Get("/balance", handler.GetBalance)
				r.Get("/transactions", handler.GetTransactions)

				r.Post("/payments/stkpush", handler.StkPush)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg))
			r.Get("/tasks", handler.GetTasks)
		})
	})

	return r
}

func New(cfg *config.Config, handler *handlers.Server) *Server {
	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      NewRouter(cfg, handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return &Server{Serv: serv}
}

func (s *Server) Start() error {
	logging.Logg.Info("Starting server", "address", s.Serv.Addr)
	if err := s.Serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	logging.Logg.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.Serv.Shutdown(shutdownCtx); err != nil {
		logging.Logg.Error("Server shutdown error", "error", err)
		return err
	}

	logging.Logg.Info("Server stopped")
	return nil
}
