package dtos

import "time"

type JobExtractionRequest struct {
	RawHTML string `json:"rawHtml" binding:"required,notblank"`
	URL     string `json:"url"`
}

// ExtractedJob is the draft posting the LLM returns from raw page content.
// Missing values come back as null and decode to zero values.
type ExtractedJob struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Description      string   `json:"description"`
	Skills           []string `json:"skills"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
	Benefits         []string `json:"benefits"`
	EmploymentType   string   `json:"employmentType"`
	SalaryRange      string   `json:"salaryRange"`
}

type SalaryRequest struct {
	Min  *float64 `json:"min" binding:"required,gte=0"`
	Max  *float64 `json:"max" binding:"required,gte=0"`
	Type string   `json:"type" binding:"omitempty,oneof=per_year per_month per_hour"`
}

type ExperienceRequest struct {
	Min *int `json:"min" binding:"required,gte=0"`
	Max *int `json:"max" binding:"required,gte=0"`
}

// JobRequest is the body of POST /jobs and PUT /jobs/:id.
type JobRequest struct {
	Title          string            `json:"title" binding:"required,notblank"`
	Company        string            `json:"company" binding:"required,notblank"`
	Location       string            `json:"location" binding:"required,notblank"`
	Salary         SalaryRequest     `json:"salary" binding:"required"`
	EmploymentType string            `json:"employmentType" binding:"required,oneof=full_time part_time contract internship"`
	Experience     ExperienceRequest `json:"experience" binding:"required"`
	Education      string            `json:"education" binding:"omitempty,oneof=high_school diploma bachelors masters phd"`
	Skills         []string          `json:"skills"`

	Description      string   `json:"description" binding:"required,notblank"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
	Benefits         []string `json:"benefits"`

	ApplicationDeadline time.Time `json:"applicationDeadline" binding:"required"`
	ContactEmail        string    `json:"contactEmail" binding:"required,email"`
	ContactPhone        string    `json:"contactPhone" binding:"required,notblank"`
	Website             string    `json:"website" binding:"required,url"`

	EmployerEmail string `json:"employerEmail" binding:"required,email"`
	Status        string `json:"status" binding:"omitempty,oneof=active closed draft"`
}

// JobListQuery is bound from the GET /jobs query string.
type JobListQuery struct {
	Search         string   `form:"search"`
	Location       string   `form:"location"`
	EmploymentType string   `form:"employmentType" binding:"omitempty,oneof=full_time part_time contract internship"`
	MinSalary      *float64 `form:"minSalary"`
	MaxSalary      *float64 `form:"maxSalary"`
	MinExperience  *int     `form:"minExperience"`
	MaxExperience  *int     `form:"maxExperience"`
	Education      string   `form:"education" binding:"omitempty,oneof=high_school diploma bachelors masters phd"`
	Status         string   `form:"status" binding:"omitempty,oneof=active closed draft"`
}
