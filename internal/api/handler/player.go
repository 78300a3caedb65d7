package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/playerregistry/internal/api/request"
	"github.com/mcoot/playerregistry/internal/api/response"
	"github.com/mcoot/playerregistry/internal/services/player"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	service *player.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(service *player.Service) *PlayerHandler {
	return &PlayerHandler{
		service: service,
	}
}

// List handles GET /rest/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.List(r.Context(), request.QueryParams(r.URL.Query()))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromModel(players))
}

// Count handles GET /rest/players/count
func (h *PlayerHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context(), request.QueryParams(r.URL.Query()))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, count)
}

// Get handles GET /rest/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Create handles POST /rest/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeBody(w, r)
	if !ok {
		return
	}

	p, err := h.service.Create(r.Context(), params)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Update handles POST /rest/players/{id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeBody(w, r)
	if !ok {
		return
	}

	p, err := h.service.Update(r.Context(), mux.Vars(r)["id"], params)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Delete handles DELETE /rest/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w)
}

// maxBodyBytes caps request bodies; a full player payload is well under 1 KiB
const maxBodyBytes = 64 << 10

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	params, err := request.DecodeParams(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return nil, false
	}
	return params, true
}
