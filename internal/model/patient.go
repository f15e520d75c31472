package model

// PatientStatus is the visit progress of a registered patient.
type PatientStatus int

const (
	PatientNotArrived PatientStatus = 0 // 未到诊
	PatientWaiting    PatientStatus = 1 // 到诊未叫号
	PatientCalled     PatientStatus = 2 // 已叫号
)

// Patient is one visit registration on the doctor's roster.
type Patient struct {
	Name          string        `json:"patientName"`
	RegisterID    string        `json:"registerId"`
	Gender        string        `json:"gender"`
	Age           int           `json:"age"`
	ScheduleDate  string        `json:"scheduleDate"`
	TimePeriod    int           `json:"timePeriod"`
	PatientStatus PatientStatus `json:"patientStatus"`
}

// RegisterRecord is a registration detail for one visit.
type RegisterRecord struct {
	RegisterID   string `json:"registerId"`
	PatientID    string `json:"patientId"`
	RegisterTime string `json:"registerTime"`
	Department   string `json:"department,omitempty"`
	ScheduleDate string `json:"scheduleDate,omitempty"`
}
