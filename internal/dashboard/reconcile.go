package dashboard

import (
	"github.com/rs/zerolog/log"

	"clinic-desk-backend/internal/metrics"
	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/normalize"
)

// Push frame collection fields.
const (
	addApplicationsField = "addApplications"
	notificationsField   = "notifications"
)

func (s *Session) subscribeAll(doctorID string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.addHandle = s.open(StreamAddNumber, doctorID)
	s.notifHandle = s.open(StreamNotifications, doctorID)
}

func (s *Session) open(stream Stream, doctorID string) Handle {
	h, err := s.src.Subscribe(stream, doctorID,
		func(frame []byte) { s.applyFrame(stream, doctorID, frame) },
		func(err error) { s.channelError(stream, doctorID, err) },
	)
	if err != nil {
		metrics.PushFrames.WithLabelValues(string(stream), metrics.OutcomeError).Inc()
		log.Error().Err(err).Str("channel", string(stream)).Str("doctor_id", doctorID).Msg("failed to open push channel")
		return nil
	}
	log.Info().Str("channel", string(stream)).Str("doctor_id", doctorID).Msg("push channel opened")
	return h
}

// applyFrame replaces the channel's whole collection with the frame's content.
// Frames that do not decode leave the state untouched.
func (s *Session) applyFrame(stream Stream, doctorID string, frame []byte) {
	switch stream {
	case StreamAddNumber:
		apps, err := normalize.PushCollection[model.AddNumberApplication](frame, addApplicationsField)
		if err != nil {
			s.rejectFrame(stream, doctorID, err)
			return
		}
		fresh, ok := s.replaceAddRequests(doctorID, apps)
		if !ok {
			return
		}
		metrics.PushFrames.WithLabelValues(string(stream), metrics.OutcomeApplied).Inc()
		if len(fresh) > 0 && s.opts.Notifier != nil {
			s.opts.Notifier.NewApplications(doctorID, fresh)
		}

	case StreamNotifications:
		notes, err := normalize.PushCollection[model.Notification](frame, notificationsField)
		if err != nil {
			s.rejectFrame(stream, doctorID, err)
			return
		}
		s.mu.Lock()
		if s.doctorID != doctorID {
			s.mu.Unlock()
			return
		}
		s.notifications = notes
		s.mu.Unlock()
		metrics.PushFrames.WithLabelValues(string(stream), metrics.OutcomeApplied).Inc()

	default:
		log.Warn().Str("channel", string(stream)).Msg("frame for unknown push channel ignored")
	}
}

// replaceAddRequests swaps in apps and returns the ones whose ids were not present
// before. The first frame after a subscription opens only primes the set.
func (s *Session) replaceAddRequests(doctorID string, apps []model.AddNumberApplication) ([]model.AddNumberApplication, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doctorID != doctorID {
		return nil, false
	}

	var fresh []model.AddNumberApplication
	if s.addPrimed {
		known := make(map[string]bool, len(s.addRequests))
		for _, a := range s.addRequests {
			known[a.AddID] = true
		}
		for _, a := range apps {
			if !known[a.AddID] {
				fresh = append(fresh, a)
			}
		}
	}
	s.addRequests = apps
	s.addPrimed = true
	return fresh, true
}

func (s *Session) rejectFrame(stream Stream, doctorID string, err error) {
	metrics.PushFrames.WithLabelValues(string(stream), metrics.OutcomeRejected).Inc()
	log.Warn().Err(err).Str("channel", string(stream)).Str("doctor_id", doctorID).Msg("push frame rejected")
}

func (s *Session) channelError(stream Stream, doctorID string, err error) {
	metrics.PushFrames.WithLabelValues(string(stream), metrics.OutcomeError).Inc()
	log.Error().Err(err).Str("channel", string(stream)).Str("doctor_id", doctorID).Msg("push channel error")
}
