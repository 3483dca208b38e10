package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"homeview/internal/members/service"
	httputil "homeview/pkg/http"
	"homeview/pkg/logger"
	"homeview/pkg/model"
)

type MemberHandler struct {
	service service.MemberService
	log     *logger.Logger
}

func NewMemberHandler(service service.MemberService, log *logger.Logger) *MemberHandler {
	return &MemberHandler{
		service: service,
		log:     log,
	}
}

func (h *MemberHandler) CreateAgent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var a model.Agent
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		h.badRequest(w, "CreateAgent", "Invalid request body")
		return
	}

	if err := h.service.CreateAgent(r.Context(), &a); err != nil {
		h.writeError(w, "CreateAgent", err)
		return
	}
	h.writeCreated(w, "CreateAgent", a)
}

func (h *MemberHandler) CreateClient(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var c model.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		h.badRequest(w, "CreateClient", "Invalid request body")
		return
	}

	if err := h.service.CreateClient(r.Context(), &c); err != nil {
		h.writeError(w, "CreateClient", err)
		return
	}
	h.writeCreated(w, "CreateClient", c)
}

func (h *MemberHandler) ListAgents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListAgents", err)
		return
	}

	agents, total, err := h.service.ListAgents(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "ListAgents", err)
		return
	}
	h.writePaginated(w, "ListAgents", agents, total, limit, offset)
}

func (h *MemberHandler) ListClients(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListClients", err)
		return
	}

	clients, total, err := h.service.ListClients(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "ListClients", err)
		return
	}
	h.writePaginated(w, "ListClients", clients, total, limit, offset)
}

func (h *MemberHandler) GetAgent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := h.service.GetAgent(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetAgent", err)
		return
	}
	h.writeSuccess(w, "GetAgent", a)
}

func (h *MemberHandler) GetClient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, err := h.service.GetClient(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetClient", err)
		return
	}
	h.writeSuccess(w, "GetClient", c)
}

func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m, err := h.service.GetMember(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetMember", err)
		return
	}
	h.writeSuccess(w, "GetMember", m)
}

func (h *MemberHandler) VerifyAgent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var v model.AgentVerification
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		h.badRequest(w, "VerifyAgent", "Invalid request body")
		return
	}

	a, err := h.service.VerifyAgent(r.Context(), ps.ByName("id"), &v)
	if err != nil {
		h.writeError(w, "VerifyAgent", err)
		return
	}
	h.writeSuccess(w, "VerifyAgent", a)
}

func (h *MemberHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var u model.MemberStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		h.badRequest(w, "UpdateStatus", "Invalid request body")
		return
	}

	m, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &u)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}
	h.writeSuccess(w, "UpdateStatus", m)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *MemberHandler) badRequest(w http.ResponseWriter, handler, message string) {
	if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: message,
	}); err != nil {
		h.log.Error("failed to write bad request response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *MemberHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *MemberHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *MemberHandler) writeCreated(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteCreated(w, data); err != nil {
		h.log.Error("failed to write created response", "handler", handler, "operation", "WriteCreated", "error", err)
	}
}

func (h *MemberHandler) writePaginated(w http.ResponseWriter, handler string, data any, total int64, limit int, offset int64) {
	if err := httputil.WritePaginated(w, data, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", handler, "operation", "WritePaginated", "error", err)
	}
}

func (h *MemberHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/agents", h.CreateAgent)
	router.GET("/api/v1/agents", h.ListAgents)
	router.GET("/api/v1/agents/id/:id", h.GetAgent)
	router.PUT("/api/v1/agents/id/:id/verification", h.VerifyAgent)
	router.POST("/api/v1/clients", h.CreateClient)
	router.GET("/api/v1/clients", h.ListClients)
	router.GET("/api/v1/clients/id/:id", h.GetClient)
	router.GET("/api/v1/members/id/:id", h.GetMember)
	router.PATCH("/api/v1/members/id/:id/status", h.UpdateStatus)
	router.DELETE("/api/v1/members/id/:id", h.Delete)
}
