package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/pkg/listing"
)

// ValidateTemplateRequest is the body of POST /templates/validate. Header is
// an optional sample header row to check the mapping against.
type ValidateTemplateRequest struct {
	Template entity.Template `json:"template"`
	Header   []string        `json:"header"`
}

// ListDependencies handles GET /dependencies
func (h *Handlers) ListDependencies(c *gin.Context) {
	page, err := h.services.Dependencies.List(c.Request.Context(), listing.FromValues(c.Request.URL.Query()))
	if err != nil {
		h.respondError(c, "list dependencies", err)
		return
	}
	respondOK(c, http.StatusOK, page)
}

// GetDependency handles GET /dependencies/:id
func (h *Handlers) GetDependency(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	dep, err := h.services.Dependencies.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "get dependency", err)
		return
	}
	respondOK(c, http.StatusOK, dep)
}

// CreateDependency handles POST /dependencies
func (h *Handlers) CreateDependency(c *gin.Context) {
	var dep entity.Dependency
	if err := c.ShouldBindJSON(&dep); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	dep.ID = 0

	if err := h.services.Dependencies.Create(c.Request.Context(), &dep); err != nil {
		h.respondError(c, "create dependency", err)
		return
	}
	respondOK(c, http.StatusCreated, dep)
}

// UpdateDependency handles PUT /dependencies/:id
func (h *Handlers) UpdateDependency(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var dep entity.Dependency
	if err := c.ShouldBindJSON(&dep); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	dep.ID = id

	if err := h.services.Dependencies.Update(c.Request.Context(), &dep); err != nil {
		h.respondError(c, "update dependency", err)
		return
	}
	respondOK(c, http.StatusOK, dep)
}

// DeleteDependency handles DELETE /dependencies/:id
func (h *Handlers) DeleteDependency(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Dependencies.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, "delete dependency", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// ListTemplates handles GET /templates
func (h *Handlers) ListTemplates(c *gin.Context) {
	templates, err := h.services.Templates.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "list templates", err)
		return
	}
	if templates == nil {
		templates = []*entity.Template{}
	}
	respondOK(c, http.StatusOK, templates)
}

// GetTemplate handles GET /templates/:id
func (h *Handlers) GetTemplate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	tpl, err := h.services.Templates.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "get template", err)
		return
	}
	respondOK(c, http.StatusOK, tpl)
}

// CreateTemplate handles POST /templates
func (h *Handlers) CreateTemplate(c *gin.Context) {
	var tpl entity.Template
	if err := c.ShouldBindJSON(&tpl); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	tpl.ID = 0

	if err := h.services.Templates.Create(c.Request.Context(), &tpl); err != nil {
		h.respondError(c, "create template", err)
		return
	}
	respondOK(c, http.StatusCreated, tpl)
}

// UpdateTemplate handles PUT /templates/:id
func (h *Handlers) UpdateTemplate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var tpl entity.Template
	if err := c.ShouldBindJSON(&tpl); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	tpl.ID = id

	if err := h.services.Templates.Update(c.Request.Context(), &tpl); err != nil {
		h.respondError(c, "update template", err)
		return
	}
	respondOK(c, http.StatusOK, tpl)
}

// DeleteTemplate handles DELETE /templates/:id
func (h *Handlers) DeleteTemplate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Templates.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, "delete template", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// ValidateTemplate handles POST /templates/validate
func (h *Handlers) ValidateTemplate(c *gin.Context) {
	var req ValidateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.services.Templates.Check(req.Template, req.Header)
	if err != nil {
		h.respondError(c, "validate template", err)
		return
	}
	valid := report == nil || report.Valid()
	respondOK(c, http.StatusOK, gin.H{"valid": valid, "report": report})
}
