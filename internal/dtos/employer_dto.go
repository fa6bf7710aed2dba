package dtos

// EmployerRequest is the body of PUT /employers/:email, sent as JSON or as a
// multipart form carrying a "logo" file. Empty fields leave the stored value
// unchanged.
type EmployerRequest struct {
	FirstName   string `json:"firstName" form:"firstName"`
	LastName    string `json:"lastName" form:"lastName"`
	CompanyName string `json:"companyName" form:"companyName"`
	Phone       string `json:"phone" form:"phone"`
	Location    string `json:"location" form:"location"`
	Website     string `json:"website" form:"website" binding:"omitempty,url"`
	Description string `json:"description" form:"description"`
	Industry    string `json:"industry" form:"industry"`
	CompanySize string `json:"companySize" form:"companySize"`
	FoundedYear int    `json:"foundedYear" form:"foundedYear" binding:"omitempty,gte=1800"`
}
