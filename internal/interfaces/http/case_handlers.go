package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muni-rrhh/dashboard/internal/application/service"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
	"github.com/muni-rrhh/dashboard/internal/domain/reconciliation"
	"github.com/muni-rrhh/dashboard/pkg/listing"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListCases handles GET /expedientes
func (h *Handlers) ListCases(c *gin.Context) {
	page, err := h.services.Cases.List(c.Request.Context(), listing.FromValues(c.Request.URL.Query()))
	if err != nil {
		h.respondError(c, "list expedientes", err)
		return
	}
	respondOK(c, http.StatusOK, page)
}

// GetCase handles GET /expedientes/:id
func (h *Handlers) GetCase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	record, err := h.services.Cases.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "get expediente", err)
		return
	}
	respondOK(c, http.StatusOK, record)
}

// CreateCase handles POST /expedientes
func (h *Handlers) CreateCase(c *gin.Context) {
	var record entity.CaseRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	record.ID = 0

	if err := h.services.Cases.Create(c.Request.Context(), &record); err != nil {
		h.respondError(c, "create expediente", err)
		return
	}
	respondOK(c, http.StatusCreated, record)
}

// UpdateCase handles PUT /expedientes/:id
func (h *Handlers) UpdateCase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var record entity.CaseRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	record.ID = id

	if err := h.services.Cases.Update(c.Request.Context(), &record); err != nil {
		h.respondError(c, "update expediente", err)
		return
	}
	respondOK(c, http.StatusOK, record)
}

// DeleteCase handles DELETE /expedientes/:id
func (h *Handlers) DeleteCase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Cases.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, "delete expediente", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// ReplaceCases handles PUT /expedientes, saving the whole grid in order
func (h *Handlers) ReplaceCases(c *gin.Context) {
	var records []*entity.CaseRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		respondMessage(c, http.StatusBadRequest, "request body must be an array of expedientes")
		return
	}

	if err := h.services.Cases.ReplaceAll(c.Request.Context(), records); err != nil {
		h.respondError(c, "save expedientes", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"saved": len(records)})
}

// ExportCases handles GET /expedientes/export
func (h *Handlers) ExportCases(c *gin.Context) {
	var buf bytes.Buffer
	filename, err := h.services.Cases.Export(c.Request.Context(), &buf)
	if err != nil {
		h.respondError(c, "export expedientes", err)
		return
	}
	sendWorkbook(c, filename, buf.Bytes())
}

// ProcessCases handles POST /expedientes/procesar with a multipart "file"
func (h *Handlers) ProcessCases(c *gin.Context) {
	filename, content, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.services.Reconciliation.Process(c.Request.Context(), service.ProcessInput{
		Filename: filename,
		Content:  bytes.NewReader(content),
	})
	if err != nil {
		h.respondError(c, "process expedientes", err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// LatestResult handles GET /expedientes/resultado
func (h *Handlers) LatestResult(c *gin.Context) {
	result, err := h.services.Reconciliation.Latest(c.Request.Context())
	if err != nil {
		h.respondError(c, "get result", err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// ExportBucket handles GET /expedientes/resultado/export/:bucket
func (h *Handlers) ExportBucket(c *gin.Context) {
	bucket, ok := reconciliation.ParseBucket(c.Param("bucket"))
	if !ok {
		respondMessage(c, http.StatusNotFound, fmt.Sprintf("unknown bucket %q", c.Param("bucket")))
		return
	}

	var buf bytes.Buffer
	filename, err := h.services.Reconciliation.Export(c.Request.Context(), bucket, &buf)
	if err != nil {
		h.respondError(c, "export result", err)
		return
	}
	sendWorkbook(c, filename, buf.Bytes())
}

// readUpload reads the multipart "file" field within the upload limit
func (h *Handlers) readUpload(c *gin.Context) (string, []byte, bool) {
	if h.maxUpload > 0 {
		if c.Request.ContentLength > h.maxUpload {
			respondMessage(c, http.StatusRequestEntityTooLarge, "file too large")
			return "", nil, false
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondMessage(c, http.StatusRequestEntityTooLarge, "file too large")
			return "", nil, false
		}
		respondMessage(c, http.StatusBadRequest, `multipart field "file" is required`)
		return "", nil, false
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", "filename", header.Filename, "error", err)
		respondMessage(c, http.StatusBadRequest, "cannot read uploaded file")
		return "", nil, false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read upload", "filename", header.Filename, "error", err)
		respondMessage(c, http.StatusBadRequest, "cannot read uploaded file")
		return "", nil, false
	}

	return header.Filename, content, true
}

func sendWorkbook(c *gin.Context, filename string, content []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}
