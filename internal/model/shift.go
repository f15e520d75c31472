package model

// Shift is one doctor occupying one time period on one day.
// Several shifts may share the same (Date, TimePeriod).
type Shift struct {
	Date        string `json:"date"` // ISO calendar date
	TimePeriod  int    `json:"timePeriod"`
	DoctorName  string `json:"docName"`
	DoctorID    string `json:"docID"`
	ClinicPlace string `json:"clinicPlace,omitempty"`
	ScheduleID  string `json:"scheduleId,omitempty"`
}
