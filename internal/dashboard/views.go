package dashboard

import "clinic-desk-backend/internal/transform"

// PatientViews returns the roster ready for display.
func (s *Session) PatientViews() []transform.PatientView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transform.Patients(s.patients, s.opts.Vocabulary)
}

// AddRequestViews returns pending add-number applications ready for display.
func (s *Session) AddRequestViews() []transform.AddRequestView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transform.AddNumberRequests(s.addRequests, s.opts.Vocabulary, s.opts.Location)
}

// NotificationViews returns notifications ready for display.
func (s *Session) NotificationViews() []transform.NotificationView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transform.Notifications(s.notifications, s.opts.Location)
}
