package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"homeview/internal/properties/service"
	httputil "homeview/pkg/http"
	"homeview/pkg/logger"
	"homeview/pkg/model"
)

type PropertyHandler struct {
	service service.PropertyService
	log     *logger.Logger
}

func NewPropertyHandler(service service.PropertyService, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		log:     log,
	}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p model.Property
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.badRequest(w, "Create", "Invalid request body")
		return
	}

	if err := h.service.Create(r.Context(), &p); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, p); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *PropertyHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	properties, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, properties, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.badRequest(w, "GetByID", "ID parameter is required")
		return
	}

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", p)
}

func (h *PropertyHandler) GetByOwner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	properties, err := h.service.GetByOwner(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByOwner", err)
		return
	}
	h.writeSuccess(w, "GetByOwner", properties)
}

func (h *PropertyHandler) GetByAgent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	properties, err := h.service.GetByAgent(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByAgent", err)
		return
	}
	h.writeSuccess(w, "GetByAgent", properties)
}

func (h *PropertyHandler) GetByStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	properties, err := h.service.GetByStatus(r.Context(), ps.ByName("status"))
	if err != nil {
		h.writeError(w, "GetByStatus", err)
		return
	}
	h.writeSuccess(w, "GetByStatus", properties)
}

func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	properties, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	h.writeSuccess(w, "Search", properties)
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.badRequest(w, "Update", "ID parameter is required")
		return
	}

	var p model.Property
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.badRequest(w, "Update", "Invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, &p)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.writeSuccess(w, "Update", updated)
}

// Delete answers with the number of removed rows per collection.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.badRequest(w, "Delete", "ID parameter is required")
		return
	}

	cascade, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	h.writeSuccess(w, "Delete", cascade)
}

func (h *PropertyHandler) AddImages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.images(w, r, ps, "AddImages", h.service.AddImages)
}

func (h *PropertyHandler) ReplaceImages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.images(w, r, ps, "ReplaceImages", h.service.ReplaceImages)
}

func (h *PropertyHandler) images(
	w http.ResponseWriter,
	r *http.Request,
	ps httprouter.Params,
	handler string,
	save func(ctx context.Context, id string, images []model.PropertyImage) ([]model.PropertyImage, error),
) {
	var images []model.PropertyImage
	if err := json.NewDecoder(r.Body).Decode(&images); err != nil {
		h.badRequest(w, handler, "Invalid request body, expected an array of images")
		return
	}

	saved, err := save(r.Context(), ps.ByName("id"), images)
	if err != nil {
		h.writeError(w, handler, err)
		return
	}
	h.writeSuccess(w, handler, saved)
}

func (h *PropertyHandler) AddVideos(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.videos(w, r, ps, "AddVideos", h.service.AddVideos)
}

func (h *PropertyHandler) ReplaceVideos(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.videos(w, r, ps, "ReplaceVideos", h.service.ReplaceVideos)
}

func (h *PropertyHandler) videos(
	w http.ResponseWriter,
	r *http.Request,
	ps httprouter.Params,
	handler string,
	save func(ctx context.Context, id string, videos []model.PropertyVideo) ([]model.PropertyVideo, error),
) {
	var videos []model.PropertyVideo
	if err := json.NewDecoder(r.Body).Decode(&videos); err != nil {
		h.badRequest(w, handler, "Invalid request body, expected an array of videos")
		return
	}

	saved, err := save(r.Context(), ps.ByName("id"), videos)
	if err != nil {
		h.writeError(w, handler, err)
		return
	}
	h.writeSuccess(w, handler, saved)
}

func (h *PropertyHandler) badRequest(w http.ResponseWriter, handler, message string) {
	if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: message,
	}); err != nil {
		h.log.Error("failed to write bad request response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *PropertyHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *PropertyHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *PropertyHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/properties", h.Create)
	router.GET("/api/v1/properties", h.GetAll)
	router.GET("/api/v1/properties/search", h.Search)
	router.GET("/api/v1/properties/id/:id", h.GetByID)
	router.GET("/api/v1/properties/owner/:id", h.GetByOwner)
	router.GET("/api/v1/properties/agent/:id", h.GetByAgent)
	router.GET("/api/v1/properties/status/:status", h.GetByStatus)
	router.PUT("/api/v1/properties/id/:id", h.Update)
	router.DELETE("/api/v1/properties/id/:id", h.Delete)
	router.POST("/api/v1/properties/id/:id/images", h.AddImages)
	router.PUT("/api/v1/properties/id/:id/images", h.ReplaceImages)
	router.POST("/api/v1/properties/id/:id/videos", h.AddVideos)
	router.PUT("/api/v1/properties/id/:id/videos", h.ReplaceVideos)
}
