package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"homeview/internal/schedules/service"
	httputil "homeview/pkg/http"
	"homeview/pkg/logger"
	"homeview/pkg/model"
)

type ScheduleHandler struct {
	service service.ScheduleService
	log     *logger.Logger
}

func NewScheduleHandler(service service.ScheduleService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log,
	}
}

type availabilityResponse struct {
	AgentID      string `json:"agent_id"`
	ScheduleTime string `json:"schedule_time"`
	Available    bool   `json:"available"`
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var sc model.Schedule
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		h.badRequest(w, "Create", "Invalid request body")
		return
	}

	if err := h.service.Create(r.Context(), &sc); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, sc); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ScheduleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.badRequest(w, "GetByID", "ID parameter is required")
		return
	}

	sc, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", sc)
}

func (h *ScheduleHandler) GetDetail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	detail, err := h.service.GetDetail(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetDetail", err)
		return
	}
	h.writeSuccess(w, "GetDetail", detail)
}

func (h *ScheduleHandler) GetByScheduleNo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sc, err := h.service.GetByScheduleNo(r.Context(), ps.ByName("no"))
	if err != nil {
		h.writeError(w, "GetByScheduleNo", err)
		return
	}
	h.writeSuccess(w, "GetByScheduleNo", sc)
}

func (h *ScheduleHandler) GetByAgent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	schedules, err := h.service.GetByAgent(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByAgent", err)
		return
	}
	h.writeSuccess(w, "GetByAgent", schedules)
}

func (h *ScheduleHandler) GetByClient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	schedules, err := h.service.GetByClient(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByClient", err)
		return
	}
	h.writeSuccess(w, "GetByClient", schedules)
}

func (h *ScheduleHandler) GetByProperty(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	schedules, err := h.service.GetByProperty(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByProperty", err)
		return
	}
	h.writeSuccess(w, "GetByProperty", schedules)
}

func (h *ScheduleHandler) GetByDateRange(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	start, err := httputil.ParseTime("start", strings.TrimSpace(query.Get("start")))
	if err != nil {
		h.writeError(w, "GetByDateRange", err)
		return
	}
	end, err := httputil.ParseTime("end", strings.TrimSpace(query.Get("end")))
	if err != nil {
		h.writeError(w, "GetByDateRange", err)
		return
	}

	schedules, err := h.service.GetByDateRange(r.Context(), start, end)
	if err != nil {
		h.writeError(w, "GetByDateRange", err)
		return
	}
	h.writeSuccess(w, "GetByDateRange", schedules)
}

func (h *ScheduleHandler) GetByStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	schedules, err := h.service.GetByStatus(r.Context(), ps.ByName("status"))
	if err != nil {
		h.writeError(w, "GetByStatus", err)
		return
	}
	h.writeSuccess(w, "GetByStatus", schedules)
}

func (h *ScheduleHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	agentID := strings.TrimSpace(query.Get("agent_id"))
	if agentID == "" {
		h.badRequest(w, "Availability", "'agent_id' query parameter is required")
		return
	}

	at, err := httputil.ParseTime("time", strings.TrimSpace(query.Get("time")))
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	available, err := h.service.IsTimeSlotAvailable(r.Context(), agentID, at)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	h.writeSuccess(w, "Availability", availabilityResponse{
		AgentID:      agentID,
		ScheduleTime: model.NormalizeScheduleTime(at).Format(timeLayout),
		Available:    available,
	})
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.badRequest(w, "Update", "ID parameter is required")
		return
	}

	var updates model.ScheduleUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.badRequest(w, "Update", "Invalid request body")
		return
	}

	sc, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.writeSuccess(w, "Update", sc)
}

func (h *ScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sc, err := h.service.Cancel(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}
	h.writeSuccess(w, "Cancel", sc)
}

func (h *ScheduleHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sc, err := h.service.Complete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Complete", err)
		return
	}
	h.writeSuccess(w, "Complete", sc)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.badRequest(w, "Delete", "ID parameter is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ScheduleHandler) badRequest(w http.ResponseWriter, handler, message string) {
	if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: message,
	}); err != nil {
		h.log.Error("failed to write bad request response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *ScheduleHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ScheduleHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/schedules", h.Create)
	router.GET("/api/v1/schedules/range", h.GetByDateRange)
	router.GET("/api/v1/schedules/availability", h.Availability)
	router.GET("/api/v1/schedules/id/:id", h.GetByID)
	router.GET("/api/v1/schedules/id/:id/details", h.GetDetail)
	router.GET("/api/v1/schedules/number/:no", h.GetByScheduleNo)
	router.GET("/api/v1/schedules/agent/:id", h.GetByAgent)
	router.GET("/api/v1/schedules/client/:id", h.GetByClient)
	router.GET("/api/v1/schedules/property/:id", h.GetByProperty)
	router.GET("/api/v1/schedules/status/:status", h.GetByStatus)
	router.PATCH("/api/v1/schedules/id/:id", h.Update)
	router.PUT("/api/v1/schedules/id/:id/cancel", h.Cancel)
	router.PUT("/api/v1/schedules/id/:id/complete", h.Complete)
	router.DELETE("/api/v1/schedules/id/:id", h.Delete)
}
