package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/hunt-assistant/internal/auth"
	"github.com/justsurfingit/hunt-assistant/internal/dtos"
	"github.com/justsurfingit/hunt-assistant/internal/logger"
	"github.com/justsurfingit/hunt-assistant/internal/models"
	"github.com/justsurfingit/hunt-assistant/internal/services"
)

type JourneyHandler struct {
	journeys       *services.JourneyService
	documents      *services.DocumentService
	maxResumeBytes int64
	log            logger.Logger
}

func NewJourneyHandler(journeys *services.JourneyService, documents *services.DocumentService, maxResumeBytes int64, log logger.Logger) *JourneyHandler {
	return &JourneyHandler{
		journeys:       journeys,
		documents:      documents,
		maxResumeBytes: maxResumeBytes,
		log:            log,
	}
}

// Create is POST /journeys
func (h *JourneyHandler) Create(c *gin.Context) {
	var form dtos.CreateJourneyForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	data, mimeType, err := h.readResume(form.Resume)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	journey, err := h.journeys.CreateJourney(c.Request.Context(), services.CreateJourneyInput{
		OwnerID:        auth.UserID(c),
		CompanyName:    strings.TrimSpace(form.CompanyName),
		JobTitle:       strings.TrimSpace(form.JobTitle),
		JobDescription: strings.TrimSpace(form.JobDescription),
		ResumeFileName: form.Resume.Filename,
		Resume:         data,
		ResumeMimeType: mimeType,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, journey)
}

func (h *JourneyHandler) List(c *gin.Context) {
	journeys, err := h.journeys.ListJourneys(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if journeys == nil {
		journeys = []models.Journey{}
	}
	c.JSON(http.StatusOK, journeys)
}

func (h *JourneyHandler) Get(c *gin.Context) {
	journey, err := h.journeys.GetJourney(c.Request.Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, journey)
}

// Update is PATCH /journeys/:id. The body cannot carry an owner.
func (h *JourneyHandler) Update(c *gin.Context) {
	var req dtos.UpdateJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	id := c.Param("id")
	if _, err := h.journeys.GetJourney(c.Request.Context(), id, auth.UserID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}

	journey, err := h.journeys.UpdateJourney(c.Request.Context(), id, req.ToUpdate())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, journey)
}

func (h *JourneyHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.journeys.GetJourney(c.Request.Context(), id, auth.UserID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.journeys.DeleteJourney(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *JourneyHandler) GenerateInsights(c *gin.Context) {
	if err := h.journeys.GenerateInsights(c.Request.Context(), c.Param("id"), auth.UserID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Insights generated successfully"})
}

func (h *JourneyHandler) GenerateCoverLetter(c *gin.Context) {
	if err := h.journeys.GenerateCoverLetter(c.Request.Context(), c.Param("id"), auth.UserID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Cover letter generated successfully"})
}

// ExportCoverLetter renders the journey's stored cover letter as DOCX.
func (h *JourneyHandler) ExportCoverLetter(c *gin.Context) {
	journey, err := h.journeys.GetJourney(c.Request.Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if journey.CoverLetter == nil || strings.TrimSpace(*journey.CoverLetter) == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cover letter has not been generated"})
		return
	}

	data, err := h.documents.RenderCoverLetter(*journey.CoverLetter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	sendDocx(c, data)
}

// PreviewInsights is POST /insights/preview. Nothing is stored.
func (h *JourneyHandler) PreviewInsights(c *gin.Context) {
	var form dtos.PreviewInsightsForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	data, mimeType, err := h.readResume(form.Resume)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	insights, err := h.journeys.PreviewInsights(c.Request.Context(), data, mimeType, strings.TrimSpace(form.JobDescription))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.InsightsResponse{Insights: insights})
}

func (h *JourneyHandler) readResume(fh *multipart.FileHeader) ([]byte, string, error) {
	tooLarge := fieldErrors{"resume": fmt.Sprintf("must be at most %d bytes", h.maxResumeBytes)}
	if fh.Size > h.maxResumeBytes {
		return nil, "", tooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxResumeBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > h.maxResumeBytes {
		return nil, "", tooLarge
	}
	if len(data) == 0 {
		return nil, "", fieldErrors{"resume": "is empty"}
	}
	return data, resumeMimeType(fh.Header.Get("Content-Type"), data), nil
}

// resumeMimeType keeps a supported declared type. Anything else (missing,
// generic, or a vendor alias such as application/x-pdf) is sniffed, and the
// declared type is reported when sniffing finds nothing supported either.
func resumeMimeType(declared string, data []byte) string {
	declared, _, _ = strings.Cut(declared, ";")
	declared = strings.ToLower(strings.TrimSpace(declared))
	if services.IsSupported(declared) {
		return declared
	}
	detected, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	if services.IsSupported(detected) || declared == "" || declared == "application/octet-stream" {
		return detected
	}
	return declared
}

func sendDocx(c *gin.Context, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ExportFileName))
	c.Data(http.StatusOK, services.MimeDOCX, data)
}
