package dtos

import "time"

type EducationRequest struct {
	Institution         string     `json:"institution" binding:"required,notblank"`
	Degree              string     `json:"degree" binding:"required,notblank"`
	Field               string     `json:"field" binding:"required,notblank"`
	StartDate           time.Time  `json:"startDate" binding:"required"`
	EndDate             *time.Time `json:"endDate"`
	Marks               string     `json:"marks"`
	Grade               string     `json:"grade"`
	IsCurrentlyStudying bool       `json:"isCurrentlyStudying"`
}

// WorkExperienceRequest fields are loose on purpose; the profile service
// fills in placeholders for missing company or position.
type WorkExperienceRequest struct {
	Company            string     `json:"company"`
	Position           string     `json:"position"`
	StartDate          time.Time  `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	IsCurrentlyWorking bool       `json:"isCurrentlyWorking"`
	Description        string     `json:"description"`
	Responsibilities   []string   `json:"responsibilities"`
	Achievements       []string   `json:"achievements"`
	Skills             []string   `json:"skills"`
}

// ProfileRequest is the body of POST /profiles and PUT /profiles/:email.
type ProfileRequest struct {
	FirstName   string `json:"firstName" binding:"required,notblank"`
	LastName    string `json:"lastName" binding:"required,notblank"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"required,notblank"`
	Location    string `json:"location" binding:"required,notblank"`

	Skills         []string                `json:"skills"`
	Education      []EducationRequest      `json:"education" binding:"dive"`
	WorkExperience []WorkExperienceRequest `json:"workExperience"`
	IsFresher      bool                    `json:"isFresher"`

	Resume              string `json:"resume"`
	ExtractedResumeText string `json:"extractedResumeText"`
}

// ResumeUploadResponse is returned by POST /resumes.
type ResumeUploadResponse struct {
	FilePath            string   `json:"filePath"`
	ExtractedResumeText string   `json:"extractedResumeText"`
	SuggestedSkills     []string `json:"suggestedSkills"`
}
