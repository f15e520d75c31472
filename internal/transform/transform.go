// Package transform maps canonical backend records to the shapes the dashboard views render.
// All functions are pure; unknown codes render as period.Unknown.
package transform

import (
	"time"

	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/parse"
	"clinic-desk-backend/internal/period"
)

// DisplayLayout is the fixed YYYY-MM-DD HH:mm presentation format.
const DisplayLayout = "2006-01-02 15:04"

const noReason = "无"

var patientStatusLabels = map[model.PatientStatus]string{
	model.PatientNotArrived: "未到诊",
	model.PatientWaiting:    "到诊未叫号",
	model.PatientCalled:     "已叫号",
}

// PatientStatusLabel names a patient status code.
func PatientStatusLabel(s model.PatientStatus) string {
	if label, ok := patientStatusLabels[s]; ok {
		return label
	}
	return period.Unknown
}

// ValidPatientStatus reports whether s is a recognized patient status.
func ValidPatientStatus(s model.PatientStatus) bool {
	_, ok := patientStatusLabels[s]
	return ok
}

// FormatDateTime renders a backend timestamp for display in loc. Unparseable input is
// returned unchanged. The result is for presentation only.
func FormatDateTime(raw string, loc *time.Location) string {
	t, err := parse.Timestamp(raw, loc)
	if err != nil {
		return raw
	}
	return t.Format(DisplayLayout)
}

// PatientView is a row of the patient roster.
type PatientView struct {
	Name          string              `json:"name"`
	RegisterID    string              `json:"registerId"`
	Gender        string              `json:"gender"`
	Age           int                 `json:"age"`
	Date          string              `json:"date"`
	Shift         string              `json:"shift"`
	TimePeriod    int                 `json:"timePeriod"`
	PatientStatus model.PatientStatus `json:"patientStatus"`
	StatusLabel   string              `json:"statusLabel"`
}

// Patient converts a roster entry.
func Patient(p model.Patient, v *period.Vocabulary) PatientView {
	return PatientView{
		Name:          p.Name,
		RegisterID:    p.RegisterID,
		Gender:        p.Gender,
		Age:           p.Age,
		Date:          p.ScheduleDate,
		Shift:         v.Label(p.TimePeriod),
		TimePeriod:    p.TimePeriod,
		PatientStatus: p.PatientStatus,
		StatusLabel:   PatientStatusLabel(p.PatientStatus),
	}
}

// AddRequestView is a row of the add-number request list.
type AddRequestView struct {
	AddID       string `json:"addId"`
	PatientName string `json:"patientName"`
	RequestTime string `json:"requestTime"`
	Reason      string `json:"reason"`
	TargetDate  string `json:"targetDate"`
	TargetShift string `json:"targetShift"`
}

// AddNumberRequest converts an add-number application.
func AddNumberRequest(a model.AddNumberApplication, v *period.Vocabulary, loc *time.Location) AddRequestView {
	reason := a.Note
	if reason == "" {
		reason = noReason
	}
	return AddRequestView{
		AddID:       a.AddID,
		PatientName: a.PatientName,
		RequestTime: FormatDateTime(a.ApplyTime, loc),
		Reason:      reason,
		TargetDate:  a.TargetDate,
		TargetShift: v.Label(a.TargetTimePeriod),
	}
}

// NotificationView is a row of the notification list.
type NotificationView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Time     string `json:"time"`
	Accepted *bool  `json:"accepted,omitempty"`
}

// Notification converts a notification.
func Notification(n model.Notification, loc *time.Location) NotificationView {
	return NotificationView{
		ID:       n.ID,
		Title:    n.Title,
		Content:  n.Content,
		Time:     FormatDateTime(n.CreatedAt, loc),
		Accepted: n.Accepted,
	}
}

// Patients converts a roster, preserving order.
func Patients(ps []model.Patient, v *period.Vocabulary) []PatientView {
	out := make([]PatientView, 0, len(ps))
	for _, p := range ps {
		out = append(out, Patient(p, v))
	}
	return out
}

// AddNumberRequests converts add-number applications, preserving order.
func AddNumberRequests(as []model.AddNumberApplication, v *period.Vocabulary, loc *time.Location) []AddRequestView {
	out := make([]AddRequestView, 0, len(as))
	for _, a := range as {
		out = append(out, AddNumberRequest(a, v, loc))
	}
	return out
}

// Notifications converts notifications, preserving order.
func Notifications(ns []model.Notification, loc *time.Location) []NotificationView {
	out := make([]NotificationView, 0, len(ns))
	for _, n := range ns {
		out = append(out, Notification(n, loc))
	}
	return out
}
