package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muni-rrhh/dashboard/internal/application/service"
)

// AgentSeries handles GET /analytics/agentes/:serie where serie is "total"
// or "por-<dimension>"
func (h *Handlers) AgentSeries(c *gin.Context) {
	ctx := c.Request.Context()
	serie := c.Param("serie")

	if serie == "total" {
		total, err := h.services.Analytics.AgentTotal(ctx)
		if err != nil {
			h.respondError(c, "count agents", err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"total": total})
		return
	}

	dimension, ok := strings.CutPrefix(serie, "por-")
	if !ok {
		respondMessage(c, http.StatusNotFound, "unknown series "+serie)
		return
	}

	series, err := h.services.Analytics.AgentsBy(ctx, dimension)
	if err != nil {
		h.respondError(c, "aggregate agents", err)
		return
	}
	respondOK(c, http.StatusOK, series)
}

// CaseSeries handles GET /analytics/expedientes/:serie
func (h *Handlers) CaseSeries(c *gin.Context) {
	ctx := c.Request.Context()

	switch c.Param("serie") {
	case "por-tipo":
		series, err := h.services.Analytics.CasesByType(ctx)
		if err != nil {
			h.respondError(c, "aggregate expedientes", err)
			return
		}
		respondOK(c, http.StatusOK, series)
	case "por-estado":
		series, err := h.services.Analytics.CasesByStatus(ctx)
		if err != nil {
			h.respondError(c, "aggregate expedientes", err)
			return
		}
		respondOK(c, http.StatusOK, series)
	case "control":
		summary, err := h.services.Analytics.Control(ctx)
		if err != nil {
			h.respondError(c, "get control summary", err)
			return
		}
		respondOK(c, http.StatusOK, summary)
	default:
		respondMessage(c, http.StatusNotFound, "unknown series "+c.Param("serie"))
	}
}

// ClearDashboard handles POST /admin/limpiar-dashboard
func (h *Handlers) ClearDashboard(c *gin.Context) {
	deleted, err := h.services.Analytics.ClearDashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, "clear dashboard", err)
		return
	}

	h.logger.Info("Dashboard cleared", "user_id", userID(c), "agents_deleted", deleted)
	respondOK(c, http.StatusOK, gin.H{"agentsDeleted": deleted})
}

// UploadAgents handles POST /tools/agrupamiento-niveles/upload with a
// multipart "file" and an optional "templateId"
func (h *Handlers) UploadAgents(c *gin.Context) {
	filename, content, ok := h.readUpload(c)
	if !ok {
		return
	}

	in := service.ImportInput{Filename: filename, Content: content}
	if raw := strings.TrimSpace(c.PostForm("templateId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid templateId")
			return
		}
		in.TemplateID = &id
	}

	result, err := h.services.Import.ImportAgents(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, "import agents", err)
		return
	}
	respondOK(c, http.StatusOK, result)
}
