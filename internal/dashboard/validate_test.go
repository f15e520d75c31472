package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/period"
)

func TestValidateScheduleChange(t *testing.T) {
	base := model.ScheduleChangeRequest{DoctorID: "D001", OriginalScheduleID: "S001"}
	with := func(f func(r *model.ScheduleChangeRequest)) model.ScheduleChangeRequest {
		r := base
		f(&r)
		return r
	}

	testCases := []struct {
		name    string
		req     model.ScheduleChangeRequest
		wantErr bool
	}{
		{name: "valid swap", req: with(func(r *model.ScheduleChangeRequest) {
			r.ChangeType, r.TargetDate, r.TimePeriod = model.ChangeTypeSwap, "2025-11-20", 2
		})},
		{name: "valid leave", req: with(func(r *model.ScheduleChangeRequest) {
			r.ChangeType, r.LeaveTimeLength = model.ChangeTypeLeave, 4
		})},
		{name: "swap without date", wantErr: true, req: with(func(r *model.ScheduleChangeRequest) {
			r.ChangeType, r.TimePeriod = model.ChangeTypeSwap, 1
		})},
		{name: "swap with bad date", wantErr: true, req: with(func(r *model.ScheduleChangeRequest) {
			r.ChangeType, r.TargetDate, r.TimePeriod = model.ChangeTypeSwap, "next tuesday", 1
		})},
		{name: "swap to unknown period", wantErr: true, req: with(func(r *model.ScheduleChangeRequest) {
			r.ChangeType, r.TargetDate, r.TimePeriod = model.ChangeTypeSwap, "2025-11-20", 9
		})},
		{name: "leave without length", wantErr: true, req: with(func(r *model.ScheduleChangeRequest) {
			r.ChangeType = model.ChangeTypeLeave
		})},
		{name: "unknown change type", wantErr: true, req: with(func(r *model.ScheduleChangeRequest) {
			r.ChangeType = 7
		})},
		{name: "missing schedule id", wantErr: true, req: model.ScheduleChangeRequest{DoctorID: "D001", ChangeType: model.ChangeTypeLeave, LeaveTimeLength: 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateScheduleChange(tc.req, period.Default())
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
