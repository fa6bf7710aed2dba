package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type SalaryPeriod string

const (
	SalaryPerYear  SalaryPeriod = "per_year"
	SalaryPerMonth SalaryPeriod = "per_month"
	SalaryPerHour  SalaryPeriod = "per_hour"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

type EducationLevel string

const (
	EducationNone       EducationLevel = ""
	EducationHighSchool EducationLevel = "high_school"
	EducationDiploma    EducationLevel = "diploma"
	EducationBachelors  EducationLevel = "bachelors"
	EducationMasters    EducationLevel = "masters"
	EducationPhD        EducationLevel = "phd"
)

type JobStatus string

const (
	JobActive JobStatus = "active"
	JobClosed JobStatus = "closed"
	JobDraft  JobStatus = "draft"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Education is stored inside the profile document. EndDate is nil while
// IsCurrentlyStudying is set.
type Education struct {
	Institution         string     `json:"institution"`
	Degree              string     `json:"degree"`
	Field               string     `json:"field"`
	StartDate           time.Time  `json:"startDate"`
	EndDate             *time.Time `json:"endDate,omitempty"`
	Marks               string     `json:"marks,omitempty"`
	Grade               string     `json:"grade,omitempty"`
	IsCurrentlyStudying bool       `json:"isCurrentlyStudying"`
}

type WorkExperience struct {
	Company            string     `json:"company"`
	Position           string     `json:"position"`
	StartDate          time.Time  `json:"startDate"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	IsCurrentlyWorking bool       `json:"isCurrentlyWorking"`
	Description        string     `json:"description"`
	Responsibilities   []string   `json:"responsibilities"`
	Achievements       []string   `json:"achievements"`
	Skills             []string   `json:"skills"`
}

// Profile is a candidate profile. Email is the external key.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FirstName   string `gorm:"not null" json:"firstName"`
	LastName    string `gorm:"not null" json:"lastName"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Location    string `json:"location"`

	Skills         pq.StringArray                      `gorm:"type:text[]" json:"skills"`
	Education      datatypes.JSONSlice[Education]      `gorm:"type:jsonb" json:"education"`
	WorkExperience datatypes.JSONSlice[WorkExperience] `gorm:"type:jsonb" json:"workExperience"`
	IsFresher      bool                                `json:"isFresher"`

	Resume              string `json:"resume,omitempty"`
	ExtractedResumeText string `gorm:"type:text" json:"extractedResumeText,omitempty"`
}

func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// EmployerProfile is the company profile behind an employer account. Email
// matches Job.EmployerEmail.
type EmployerProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	CompanyName string `json:"companyName"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Website     string `json:"website"`
	Description string `gorm:"type:text" json:"description"`
	Industry    string `json:"industry"`
	CompanySize string `json:"companySize"`
	FoundedYear int    `json:"foundedYear,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

type Salary struct {
	Min  float64      `json:"min"`
	Max  float64      `json:"max"`
	Type SalaryPeriod `gorm:"default:'per_year'" json:"type"`
}

type ExperienceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type Job struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title          string          `gorm:"not null" json:"title"`
	Company        string          `gorm:"not null" json:"company"`
	Location       string          `gorm:"not null" json:"location"`
	Salary         Salary          `gorm:"embedded;embeddedPrefix:salary_" json:"salary"`
	EmploymentType EmploymentType  `gorm:"index" json:"employmentType"`
	Experience     ExperienceRange `gorm:"embedded;embeddedPrefix:experience_" json:"experience"`
	Education      EducationLevel  `json:"education"`
	Skills         pq.StringArray  `gorm:"type:text[]" json:"skills"`

	Description      string         `gorm:"type:text" json:"description"`
	Responsibilities pq.StringArray `gorm:"type:text[]" json:"responsibilities"`
	Requirements     pq.StringArray `gorm:"type:text[]" json:"requirements"`
	Benefits         pq.StringArray `gorm:"type:text[]" json:"benefits"`

	ApplicationDeadline time.Time `json:"applicationDeadline"`
	ContactEmail        string    `json:"contactEmail"`
	ContactPhone        string    `json:"contactPhone"`
	Website             string    `json:"website"`

	EmployerEmail string    `gorm:"index;not null" json:"employerEmail"`
	Status        JobStatus `gorm:"index;default:'active'" json:"status"`
}

// Application links one candidate (by email) to one job. The pair is unique.
type Application struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	JobID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_candidate_job" json:"jobId"`
	Job            *Job      `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	CandidateEmail string    `gorm:"not null;uniqueIndex:idx_application_candidate_job" json:"candidateEmail"`

	Status      ApplicationStatus `gorm:"index;default:'pending'" json:"status"`
	CoverLetter string            `gorm:"type:text" json:"coverLetter"`
	Resume      string            `json:"resume"`
	AppliedAt   time.Time         `json:"appliedAt"`
}
