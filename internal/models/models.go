package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JourneyStatus string

const (
	StatusDraft      JourneyStatus = "draft"
	StatusInProgress JourneyStatus = "in-progress"
	StatusCompleted  JourneyStatus = "completed"
	StatusApplied    JourneyStatus = "applied"
	StatusArchived   JourneyStatus = "archived"
)

// Valid reports whether s is one of the five known statuses.
func (s JourneyStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusCompleted, StatusApplied, StatusArchived:
		return true
	}
	return false
}

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	// Set for accounts created or linked through Google sign-in
	GoogleSubject *string `gorm:"uniqueIndex" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Journey struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owner. Create-only: gorm never writes it on update.
	UserID string `gorm:"<-:create;index;not null" json:"user_id"`

	CompanyName    string `gorm:"not null" json:"company_name"`
	JobTitle       string `gorm:"not null" json:"job_title"`
	JobDescription string `gorm:"type:text;not null" json:"job_description"`
	ResumeFileName string `gorm:"not null" json:"resume_file_name"`
	ResumeText     string `gorm:"type:text;not null" json:"resume_text"`

	// Markdown, nil until generated
	Insights    *string `gorm:"type:text" json:"insights"`
	CoverLetter *string `gorm:"type:text" json:"cover_letter"`

	Status JourneyStatus `gorm:"type:varchar(16);not null;default:'draft'" json:"status"`
}

func (j *Journey) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Status == "" {
		j.Status = StatusDraft
	}
	return nil
}

// JourneyUpdate is a partial update. Nil fields are left untouched. The owner
// is not part of it.
type JourneyUpdate struct {
	CompanyName    *string
	JobTitle       *string
	JobDescription *string
	ResumeFileName *string
	Insights       *string
	CoverLetter    *string
	Status         *JourneyStatus
}

// Columns returns the column/value pairs of the provided fields.
func (u JourneyUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 7)
	if u.CompanyName != nil {
		cols["company_name"] = *u.CompanyName
	}
	if u.JobTitle != nil {
		cols["job_title"] = *u.JobTitle
	}
	if u.JobDescription != nil {
		cols["job_description"] = *u.JobDescription
	}
	if u.ResumeFileName != nil {
		cols["resume_file_name"] = *u.ResumeFileName
	}
	if u.Insights != nil {
		cols["insights"] = *u.Insights
	}
	if u.CoverLetter != nil {
		cols["cover_letter"] = *u.CoverLetter
	}
	if u.Status != nil {
		cols["status"] = string(*u.Status)
	}
	return cols
}
