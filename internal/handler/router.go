package handler

import (
	"github.com/Dan9191/taxflow/internal/config"
	"github.com/Dan9191/taxflow/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires the public and token-protected routes.
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(h.log))

	// Public routes
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.HandleFunc("/tax/calculate", h.Calculate).Methods("POST")
	r.HandleFunc("/pan/{pan}", h.ValidatePAN).Methods("GET")
	r.HandleFunc("/regimes", h.Regimes).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/profiles/{pan}", h.GetProfile).Methods("GET")
	authRouter.HandleFunc("/profiles/{pan}", h.PutProfile).Methods("PUT")
	authRouter.HandleFunc("/profiles/{pan}", h.DeleteProfile).Methods("DELETE")
	authRouter.HandleFunc("/tax/report/email", h.EmailReport).Methods("POST")

	return r
}
