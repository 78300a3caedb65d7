package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/playerregistry/internal/api/apierr"
	"github.com/mcoot/playerregistry/internal/api/handler"
	"github.com/mcoot/playerregistry/internal/api/middleware"
	"github.com/mcoot/playerregistry/internal/api/response"
	sharedmw "github.com/mcoot/playerregistry/internal/middleware"
	"github.com/mcoot/playerregistry/internal/services/player"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	PlayerService *player.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)

	// Create middleware
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	rest := r.PathPrefix("/rest").Subrouter()
	rest.Use(loggingMiddleware)
	rest.Use(recoveryMiddleware)

	// Player routes; count is registered before {id} so it is not taken as an identifier
	rest.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	rest.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	rest.HandleFunc("/players/count", playerHandler.Count).Methods(http.MethodGet)
	rest.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	rest.HandleFunc("/players/{id}", playerHandler.Update).Methods(http.MethodPost)
	rest.HandleFunc("/players/{id}", playerHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint
	rest.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}
