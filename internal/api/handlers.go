package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docsight/internal/rag/errs"
	"docsight/internal/service"
	"docsight/pkg/logger"
)

// maxUploadBytes caps one uploaded file.
const maxUploadBytes = 20 << 20

type handler struct {
	svc *service.Service
	log *logger.Logger
}

func newHandler(svc *service.Service, log *logger.Logger) *handler {
	return &handler{svc: svc, log: log}
}

// respond writes the success envelope.
func respond(c *gin.Context, result interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// respondError writes the failure envelope, mapping the error kind to an
// HTTP status.
func (h *handler) respondError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	h.log.WithError(err).WithField("error_kind", string(kind)).Warn("request failed")
	c.JSON(errs.HTTPStatus(kind), gin.H{
		"success":    false,
		"error":      err.Error(),
		"error_kind": string(kind),
	})
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "docsight"})
}

type analyzeRequest struct {
	DocumentText string `json:"document_text" binding:"required"`
}

func (h *handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errs.Wrap(err, errs.KindInput, "invalid analyze request"))
		return
	}

	result, err := h.svc.Analyze(c.Request.Context(), req.DocumentText)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, result)
}

func (h *handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, errs.Wrap(err, errs.KindInput, "missing file in upload"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		h.respondError(c, errs.Newf(errs.KindInput,
			"file too large: %d bytes, maximum %d", fileHeader.Size, maxUploadBytes))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, errs.Wrap(err, errs.KindInput, "opening uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		h.respondError(c, errs.Wrap(err, errs.KindInput, "reading uploaded file"))
		return
	}

	result, err := h.svc.Upload(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, result)
}

func (h *handler) listDocuments(c *gin.Context) {
	docs, err := h.svc.ListDocuments(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, gin.H{
		"documents":   docs,
		"total_count": len(docs),
	})
}

// deleteDocument removes a document. An unknown id is not an error: the
// envelope reports deleted_count=0.
func (h *handler) deleteDocument(c *gin.Context) {
	deleted, err := h.svc.DeleteDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, gin.H{"deleted_count": deleted})
}

type askRequest struct {
	Question   string `json:"question" binding:"required"`
	DocumentID string `json:"document_id"`
}

func (h *handler) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errs.Wrap(err, errs.KindInput, "invalid ask request"))
		return
	}

	result, err := h.svc.Ask(c.Request.Context(), req.Question, req.DocumentID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, result)
}
