package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/hunt-assistant/internal/dtos"
	"github.com/justsurfingit/hunt-assistant/internal/logger"
	"github.com/justsurfingit/hunt-assistant/internal/services"
)

type DocumentHandler struct {
	documents *services.DocumentService
	log       logger.Logger
}

func NewDocumentHandler(documents *services.DocumentService, log logger.Logger) *DocumentHandler {
	return &DocumentHandler{documents: documents, log: log}
}

// Export is POST /export-document: markdown in, DOCX attachment out.
func (h *DocumentHandler) Export(c *gin.Context) {
	var req dtos.ExportDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	data, err := h.documents.RenderCoverLetter(req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	sendDocx(c, data)
}
