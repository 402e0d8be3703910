package dtos

import (
	"mime/multipart"

	"github.com/justsurfingit/hunt-assistant/internal/models"
)

// CreateJourneyForm is the multipart body of POST /journeys.
type CreateJourneyForm struct {
	CompanyName    string                `form:"companyName" binding:"required,notblank"`
	JobTitle       string                `form:"jobTitle" binding:"required,notblank"`
	JobDescription string                `form:"jobDescription" binding:"required,min=50"`
	Resume         *multipart.FileHeader `form:"resume" binding:"required"`
}

// PreviewInsightsForm is the multipart body of POST /insights/preview.
type PreviewInsightsForm struct {
	JobDescription string                `form:"jobDescription" binding:"required,min=50"`
	Resume         *multipart.FileHeader `form:"resume" binding:"required"`
}

// UpdateJourneyRequest is the JSON body of PATCH /journeys/:id. Keys match the
// journey response. Absent fields are left alone; unknown fields (an owner id
// included) are ignored.
type UpdateJourneyRequest struct {
	CompanyName    *string               `json:"company_name" binding:"omitempty,notblank"`
	JobTitle       *string               `json:"job_title" binding:"omitempty,notblank"`
	JobDescription *string               `json:"job_description" binding:"omitempty,min=50"`
	ResumeFileName *string               `json:"resume_file_name" binding:"omitempty,notblank"`
	Insights       *string               `json:"insights"`
	CoverLetter    *string               `json:"cover_letter"`
	Status         *models.JourneyStatus `json:"status" binding:"omitempty,oneof=draft in-progress completed applied archived"`
}

func (r UpdateJourneyRequest) ToUpdate() models.JourneyUpdate {
	return models.JourneyUpdate{
		CompanyName:    r.CompanyName,
		JobTitle:       r.JobTitle,
		JobDescription: r.JobDescription,
		ResumeFileName: r.ResumeFileName,
		Insights:       r.Insights,
		CoverLetter:    r.CoverLetter,
		Status:         r.Status,
	}
}

type ExportDocumentRequest struct {
	Content string `json:"content" binding:"required,notblank"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type InsightsResponse struct {
	Insights string `json:"insights"`
}
