package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/period"
)

func shanghai(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	return loc
}

func TestFormatDateTime(t *testing.T) {
	loc := shanghai(t)

	assert.Equal(t, "2025-11-14 09:30", FormatDateTime("2025-11-14T09:30:00", loc))
	assert.Equal(t, "2025-11-14 09:30", FormatDateTime("2025-11-14T01:30:45Z", loc))
	assert.Equal(t, "2025-11-15 00:05", FormatDateTime("2025-11-14T16:05:00Z", loc))
	assert.Equal(t, "not-a-time", FormatDateTime("not-a-time", loc))
}

func TestPatient(t *testing.T) {
	v := period.Default()

	view := Patient(model.Patient{
		Name: "张三", RegisterID: "R1", Gender: "男", Age: 42,
		ScheduleDate: "2025-11-18", TimePeriod: 2, PatientStatus: model.PatientCalled,
	}, v)

	assert.Equal(t, PatientView{
		Name: "张三", RegisterID: "R1", Gender: "男", Age: 42,
		Date: "2025-11-18", Shift: "下午", TimePeriod: 2,
		PatientStatus: model.PatientCalled, StatusLabel: "已叫号",
	}, view)

	unknown := Patient(model.Patient{RegisterID: "R2", TimePeriod: 7, PatientStatus: 5}, v)
	assert.Equal(t, period.Unknown, unknown.Shift)
	assert.Equal(t, period.Unknown, unknown.StatusLabel)
}

func TestAddNumberRequest(t *testing.T) {
	v := period.Default()
	loc := shanghai(t)

	withNote := AddNumberRequest(model.AddNumberApplication{
		AddID: "ADD001", PatientName: "张三", ApplyTime: "2025-11-14T09:30:00",
		TargetDate: "2025-11-14", TargetTimePeriod: 2, Note: "高烧",
	}, v, loc)
	assert.Equal(t, AddRequestView{
		AddID: "ADD001", PatientName: "张三", RequestTime: "2025-11-14 09:30",
		Reason: "高烧", TargetDate: "2025-11-14", TargetShift: "下午",
	}, withNote)

	noNote := AddNumberRequest(model.AddNumberApplication{AddID: "ADD002", TargetTimePeriod: 9}, v, loc)
	assert.Equal(t, "无", noNote.Reason)
	assert.Equal(t, period.Unknown, noNote.TargetShift)
}

func TestNotification(t *testing.T) {
	accepted := true
	view := Notification(model.Notification{
		ID: "N1", Title: "排班变更通知", Content: "...", CreatedAt: "2025-11-14T10:00:00", Accepted: &accepted,
	}, shanghai(t))

	assert.Equal(t, "2025-11-14 10:00", view.Time)
	require.NotNil(t, view.Accepted)
	assert.True(t, *view.Accepted)
}

func TestListsPreserveOrder(t *testing.T) {
	v := period.Default()
	ps := Patients([]model.Patient{{RegisterID: "b"}, {RegisterID: "a"}}, v)
	assert.Equal(t, "b", ps[0].RegisterID)
	assert.Equal(t, "a", ps[1].RegisterID)

	assert.NotNil(t, Notifications(nil, time.UTC))
	assert.NotNil(t, AddNumberRequests(nil, v, time.UTC))
}

func TestValidPatientStatus(t *testing.T) {
	assert.True(t, ValidPatientStatus(model.PatientNotArrived))
	assert.True(t, ValidPatientStatus(model.PatientCalled))
	assert.False(t, ValidPatientStatus(3))
}
