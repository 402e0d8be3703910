package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/justsurfingit/hunt-assistant/internal/logger"
	"github.com/justsurfingit/hunt-assistant/internal/models"
	"github.com/justsurfingit/hunt-assistant/internal/store"
)

// TextExtractor turns résumé bytes into text.
type TextExtractor interface {
	ExtractText(data []byte, mimeType string) (string, error)
}

// JourneyRepository is the persistence the service needs. store.JourneyStore
// implements it.
type JourneyRepository interface {
	Create(ctx context.Context, j *models.Journey) error
	FindByID(ctx context.Context, id string) (*models.Journey, error)
	FindByOwner(ctx context.Context, userID string) ([]models.Journey, error)
	Update(ctx context.Context, id string, u models.JourneyUpdate) (*models.Journey, error)
	Delete(ctx context.Context, id string) error
}

// CreateJourneyInput carries a validated creation request.
type CreateJourneyInput struct {
	OwnerID        string
	CompanyName    string
	JobTitle       string
	JobDescription string
	ResumeFileName string
	Resume         []byte
	ResumeMimeType string
}

// JourneyService runs the journey lifecycle: extraction, generation and
// persistence.
type JourneyService struct {
	store     JourneyRepository
	extractor TextExtractor
	generator Generator
	log       logger.Logger
}

func NewJourneyService(repo JourneyRepository, extractor TextExtractor, generator Generator, log logger.Logger) *JourneyService {
	return &JourneyService{
		store:     repo,
		extractor: extractor,
		generator: generator,
		log:       log,
	}
}

// CreateJourney extracts the résumé text, generates insights and only then
// stores the journey, with status in-progress. Nothing is stored if either
// step fails.
func (s *JourneyService) CreateJourney(ctx context.Context, in CreateJourneyInput) (*models.Journey, error) {
	resumeText, err := s.extractor.ExtractText(in.Resume, in.ResumeMimeType)
	if err != nil {
		s.log.Warn("resume_extraction_failed",
			logger.String("user_id", in.OwnerID),
			logger.String("mime_type", in.ResumeMimeType),
			logger.Error(err))
		return nil, err
	}

	insights, err := s.generator.GenerateInsights(ctx, resumeText, in.JobDescription)
	if err != nil {
		s.log.Error("journey_insights_failed", logger.String("user_id", in.OwnerID), logger.Error(err))
		return nil, err
	}

	journey := &models.Journey{
		UserID:         in.OwnerID,
		CompanyName:    in.CompanyName,
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
		ResumeFileName: in.ResumeFileName,
		ResumeText:     resumeText,
		Insights:       &insights,
		Status:         models.StatusInProgress,
	}
	if err := s.store.Create(ctx, journey); err != nil {
		return nil, persistenceError("create journey", err)
	}

	s.log.Info("journey_created",
		logger.String("journey_id", journey.ID),
		logger.String("user_id", journey.UserID),
		logger.String("company", journey.CompanyName))
	return journey, nil
}

// GetJourney loads a journey on behalf of requesterID.
func (s *JourneyService) GetJourney(ctx context.Context, id, requesterID string) (*models.Journey, error) {
	j, err := s.store.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrJourneyNotFound, id)
	}
	if err != nil {
		return nil, persistenceError("load journey", err)
	}
	if j.UserID != requesterID {
		s.log.Warn("journey_access_denied",
			logger.String("journey_id", id),
			logger.String("requester_id", requesterID))
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, id)
	}
	return j, nil
}

// ListJourneys returns the owner's journeys, newest first.
func (s *JourneyService) ListJourneys(ctx context.Context, ownerID string) ([]models.Journey, error) {
	journeys, err := s.store.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, persistenceError("list journeys", err)
	}
	return journeys, nil
}

// GenerateInsights regenerates and overwrites the journey's insights.
func (s *JourneyService) GenerateInsights(ctx context.Context, id, requesterID string) error {
	j, err := s.GetJourney(ctx, id, requesterID)
	if err != nil {
		return err
	}

	insights, err := s.generator.GenerateInsights(ctx, j.ResumeText, j.JobDescription)
	if err != nil {
		s.log.Error("journey_insights_failed", logger.String("journey_id", id), logger.Error(err))
		return err
	}

	if _, err := s.update(ctx, id, models.JourneyUpdate{Insights: &insights}); err != nil {
		return err
	}
	s.log.Info("insights_generated", logger.String("journey_id", id))
	return nil
}

// GenerateCoverLetter regenerates and overwrites the journey's cover letter.
func (s *JourneyService) GenerateCoverLetter(ctx context.Context, id, requesterID string) error {
	j, err := s.GetJourney(ctx, id, requesterID)
	if err != nil {
		return err
	}

	letter, err := s.generator.GenerateCoverLetter(ctx, j.ResumeText, j.JobDescription)
	if err != nil {
		s.log.Error("journey_cover_letter_failed", logger.String("journey_id", id), logger.Error(err))
		return err
	}

	if _, err := s.update(ctx, id, models.JourneyUpdate{CoverLetter: &letter}); err != nil {
		return err
	}
	s.log.Info("cover_letter_generated", logger.String("journey_id", id))
	return nil
}

// UpdateJourney applies a partial update. Callers check ownership first.
func (s *JourneyService) UpdateJourney(ctx context.Context, id string, u models.JourneyUpdate) (*models.Journey, error) {
	j, err := s.update(ctx, id, u)
	if err != nil {
		return nil, err
	}
	s.log.Info("journey_updated", logger.String("journey_id", id))
	return j, nil
}

// DeleteJourney removes the journey. Callers check ownership first.
func (s *JourneyService) DeleteJourney(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return persistenceError("delete journey", err)
	}
	s.log.Info("journey_deleted", logger.String("journey_id", id))
	return nil
}

// PreviewInsights runs extraction and insight generation without storing
// anything.
func (s *JourneyService) PreviewInsights(ctx context.Context, resume []byte, mimeType, jobDescription string) (string, error) {
	resumeText, err := s.extractor.ExtractText(resume, mimeType)
	if err != nil {
		return "", err
	}
	return s.generator.GenerateInsights(ctx, resumeText, jobDescription)
}

func (s *JourneyService) update(ctx context.Context, id string, u models.JourneyUpdate) (*models.Journey, error) {
	j, err := s.store.Update(ctx, id, u)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrJourneyNotFound, id)
	}
	if err != nil {
		return nil, persistenceError("update journey", err)
	}
	return j, nil
}
