package dashboard

import (
	"errors"
	"fmt"

	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/parse"
	"clinic-desk-backend/internal/period"
)

// ErrInvalidRequest marks a command that fails local validation and is never sent.
var ErrInvalidRequest = errors.New("invalid request")

// ValidateScheduleChange checks a swap or leave request before it is submitted.
// A swap needs a target date and a known period; leave needs a positive length in hours.
func ValidateScheduleChange(r model.ScheduleChangeRequest, v *period.Vocabulary) error {
	if r.DoctorID == "" || r.OriginalScheduleID == "" {
		return fmt.Errorf("%w: docId and originalScheduleId are required", ErrInvalidRequest)
	}
	switch r.ChangeType {
	case model.ChangeTypeSwap:
		if r.TargetDate == "" {
			return fmt.Errorf("%w: swap needs targetDate", ErrInvalidRequest)
		}
		if _, err := parse.CalendarDate(r.TargetDate); err != nil {
			return fmt.Errorf("%w: targetDate: %v", ErrInvalidRequest, err)
		}
		if !v.Known(r.TimePeriod) {
			return fmt.Errorf("%w: unknown timePeriod %d", ErrInvalidRequest, r.TimePeriod)
		}
	case model.ChangeTypeLeave:
		if r.LeaveTimeLength <= 0 {
			return fmt.Errorf("%w: leave needs a positive leaveTimeLength", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown changeType %d", ErrInvalidRequest, r.ChangeType)
	}
	return nil
}
