package model

// DoctorProfile is loaded once per session.
type DoctorProfile struct {
	DoctorID    string `json:"doctorId,omitempty"`
	Account     string `json:"doctorAccount,omitempty"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Title       string `json:"title,omitempty"`
	ClinicID    string `json:"clinicId,omitempty"`
	Description string `json:"description,omitempty"`
}
