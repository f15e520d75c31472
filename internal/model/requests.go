package model

// Schedule change types.
const (
	ChangeTypeSwap  = 0 // 调班
	ChangeTypeLeave = 1 // 请假
)

// Doctor status codes sent with a patient status update.
const (
	DoctorPending  = 0 // 待诊
	DoctorFinished = 1 // 已诊
)

// AddNumberDecision is the doctor's answer to an add-number application.
type AddNumberDecision struct {
	AddID    string `json:"addId" binding:"required"`
	Approved bool   `json:"approved"`
	Note     string `json:"note,omitempty"`
}

// AddNumberDecisionResult is what the backend returns for a decision.
type AddNumberDecisionResult struct {
	Decision string `json:"decision"`
	Message  string `json:"message"`
}

// ScheduleChangeRequest asks the backend to swap a shift or grant leave.
type ScheduleChangeRequest struct {
	DoctorID           string `json:"docId"`
	OriginalScheduleID string `json:"originalScheduleId"`
	ChangeType         int    `json:"changeType"`
	TargetDate         string `json:"targetDate,omitempty"`
	TimePeriod         int    `json:"timePeriod,omitempty"`
	TargetDoctorID     string `json:"targetDoctorId,omitempty"`
	LeaveTimeLength    int    `json:"leaveTimeLength"` // hours
	Reason             string `json:"reason,omitempty"`
}

// ScheduleChangeResult is what the backend returns for a change request.
type ScheduleChangeResult struct {
	RequestID string `json:"requestId,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
}

// PatientStatusUpdate moves a patient along the visit workflow.
type PatientStatusUpdate struct {
	DoctorID      string        `json:"doctorId"`
	RegisterID    string        `json:"registerId"`
	DoctorStatus  int           `json:"doctorStatus"`
	PatientStatus PatientStatus `json:"patientStatus"`
}
