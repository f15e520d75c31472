package model

// AddNumberApplication is a patient's request for an extra, unscheduled slot.
type AddNumberApplication struct {
	AddID            string `json:"addId"`
	PatientName      string `json:"patientName"`
	ApplyTime        string `json:"applyTime"`
	TargetDate       string `json:"targetDate"`
	TargetTimePeriod int    `json:"targetTimePeriod"`
	Note             string `json:"note,omitempty"`
}
