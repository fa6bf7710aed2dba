package dtos

type ApplicationRequest struct {
	JobID          string `json:"jobId" binding:"required,uuid"`
	CandidateEmail string `json:"candidateEmail" binding:"required,email"`
	CoverLetter    string `json:"coverLetter"`
	Resume         string `json:"resume"`
}

// StatusUpdateRequest is the body of PATCH /applications/:id. Status is
// checked by the workflow so an unknown value reports a validation error
// with the allowed targets.
type StatusUpdateRequest struct {
	Status        string `json:"status" binding:"required,notblank"`
	EmployerEmail string `json:"employerEmail" binding:"omitempty,email"`
}

type AcceptanceEmailRequest struct {
	To            string `json:"to" binding:"required,email"`
	JobTitle      string `json:"jobTitle" binding:"required,notblank"`
	CompanyName   string `json:"companyName" binding:"required,notblank"`
	CandidateName string `json:"candidateName" binding:"required,notblank"`
	JobLocation   string `json:"jobLocation" binding:"required,notblank"`
	Salary        string `json:"salary" binding:"required,notblank"`
	StartDate     string `json:"startDate" binding:"required,notblank"`
}
