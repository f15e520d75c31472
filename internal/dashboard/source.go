package dashboard

import (
	"context"

	"clinic-desk-backend/internal/model"
)

// Stream identifies one of the two push channels.
type Stream string

const (
	StreamAddNumber     Stream = "add-number"
	StreamNotifications Stream = "notifications"
)

// Handle is an open push subscription.
type Handle interface {
	Close() error
}

// Source is where the session loads its data from and subscribes to pushes.
// Implementations return canonical records; envelope handling is their concern for loads.
// Push frames are delivered raw and decoded by the session.
type Source interface {
	Profile(ctx context.Context, doctorID string) (model.DoctorProfile, error)
	SelfShifts(ctx context.Context, doctorID string) ([]model.Shift, error)
	// AllShifts returns every doctor's shifts, or one doctor's when doctorID is set.
	AllShifts(ctx context.Context, doctorID string) ([]model.Shift, error)
	Patients(ctx context.Context, doctorID string) ([]model.Patient, error)
	// Subscribe opens a push channel. onFrame receives each frame payload and onError
	// channel-level failures; both may be called from another goroutine until Close.
	Subscribe(stream Stream, doctorID string, onFrame func(frame []byte), onError func(err error)) (Handle, error)
}

// Commands are the doctor's write actions against the backend.
type Commands interface {
	SubmitAddNumberResult(ctx context.Context, d model.AddNumberDecision) (model.AddNumberDecisionResult, error)
	SubmitScheduleChange(ctx context.Context, r model.ScheduleChangeRequest) (model.ScheduleChangeResult, error)
	UpdatePatientStatus(ctx context.Context, u model.PatientStatusUpdate) error
	RegisterRecords(ctx context.Context, registerID, doctorID string) ([]model.RegisterRecord, error)
}

// Notifier is told about add-number applications that appeared in a push frame.
type Notifier interface {
	NewApplications(doctorID string, apps []model.AddNumberApplication)
}
