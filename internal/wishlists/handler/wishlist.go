package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"homeview/internal/wishlists/service"
	httputil "homeview/pkg/http"
	"homeview/pkg/logger"
	"homeview/pkg/model"
)

type WishlistHandler struct {
	service service.WishlistService
	log     *logger.Logger
}

func NewWishlistHandler(service service.WishlistService, log *logger.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: service,
		log:     log,
	}
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var entry model.Wishlist
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.badRequest(w, "Add", "Invalid request body")
		return
	}

	if err := h.service.Add(r.Context(), &entry); err != nil {
		h.writeError(w, "Add", err)
		return
	}

	if err := httputil.WriteCreated(w, entry); err != nil {
		h.log.Error("failed to write created response", "handler", "Add", "operation", "WriteCreated", "error", err)
	}
}

func (h *WishlistHandler) GetByClient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	entries, err := h.service.GetByClient(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByClient", err)
		return
	}

	if err := httputil.WriteSuccess(w, entries); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByClient", "operation", "WriteSuccess", "error", err)
	}
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Remove(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Remove", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *WishlistHandler) RemoveProperty(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.RemoveProperty(r.Context(), ps.ByName("id"), ps.ByName("property_id")); err != nil {
		h.writeError(w, "RemoveProperty", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *WishlistHandler) badRequest(w http.ResponseWriter, handler, message string) {
	if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: message,
	}); err != nil {
		h.log.Error("failed to write bad request response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *WishlistHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *WishlistHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/wishlists", h.Add)
	router.GET("/api/v1/wishlists/client/:id", h.GetByClient)
	router.DELETE("/api/v1/wishlists/client/:id/property/:property_id", h.RemoveProperty)
	router.DELETE("/api/v1/wishlists/id/:id", h.Remove)
}
