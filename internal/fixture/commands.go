package fixture

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clinic-desk-backend/internal/dashboard"
	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/upstream"
)

// SubmitAddNumberResult resolves an application and pushes the shortened list.
func (s *Source) SubmitAddNumberResult(ctx context.Context, d model.AddNumberDecision) (model.AddNumberDecisionResult, error) {
	s.mu.Lock()
	idx := -1
	for i, a := range s.applications {
		if a.AddID == d.AddID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return model.AddNumberDecisionResult{}, fmt.Errorf("%w: add-number application %s", upstream.ErrNotFound, d.AddID)
	}
	s.applications = append(s.applications[:idx:idx], s.applications[idx+1:]...)
	s.mu.Unlock()

	s.publish(dashboard.StreamAddNumber)

	res := model.AddNumberDecisionResult{Decision: "rejected", Message: "已拒绝加号申请"}
	if d.Approved {
		res = model.AddNumberDecisionResult{Decision: "approved", Message: "已同意加号申请"}
	}
	return res, nil
}

// SubmitScheduleChange moves (swap) or removes (leave) a shift and posts a notification.
func (s *Source) SubmitScheduleChange(ctx context.Context, r model.ScheduleChangeRequest) (model.ScheduleChangeResult, error) {
	s.mu.Lock()
	idx := -1
	for i, sh := range s.shifts {
		if sh.ScheduleID == r.OriginalScheduleID && sh.DoctorID == r.DoctorID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return model.ScheduleChangeResult{}, fmt.Errorf("%w: schedule %s", upstream.ErrNotFound, r.OriginalScheduleID)
	}

	var title string
	switch r.ChangeType {
	case model.ChangeTypeSwap:
		for _, sh := range s.shifts {
			if sh.DoctorID == r.DoctorID && sh.Date == r.TargetDate && sh.TimePeriod == r.TimePeriod {
				s.mu.Unlock()
				return model.ScheduleChangeResult{}, fmt.Errorf("%w: code 409: 目标班次已有排班", upstream.ErrRejected)
			}
		}
		s.shifts[idx].Date = r.TargetDate
		s.shifts[idx].TimePeriod = r.TimePeriod
		title = "调班申请已通过"
	case model.ChangeTypeLeave:
		s.shifts = append(s.shifts[:idx:idx], s.shifts[idx+1:]...)
		title = "请假申请已通过"
	default:
		s.mu.Unlock()
		return model.ScheduleChangeResult{}, fmt.Errorf("%w: unknown change type %d", upstream.ErrRejected, r.ChangeType)
	}
	s.mu.Unlock()

	requestID := uuid.NewString()
	s.Notify(model.Notification{
		Title:     title,
		Content:   fmt.Sprintf("排班 %s 的变更申请已处理。", r.OriginalScheduleID),
		CreatedAt: time.Now().Format(time.RFC3339),
	})
	return model.ScheduleChangeResult{RequestID: requestID, Status: "approved", Message: title}, nil
}

// UpdatePatientStatus records the new status on the roster.
func (s *Source) UpdatePatientStatus(ctx context.Context, u model.PatientStatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.patients {
		if s.patients[i].RegisterID == u.RegisterID {
			s.patients[i].PatientStatus = u.PatientStatus
			return nil
		}
	}
	return fmt.Errorf("%w: register %s", upstream.ErrNotFound, u.RegisterID)
}
