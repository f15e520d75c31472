// Package dashboard holds a doctor's session-scoped view state and keeps it in step with
// loads and push frames.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"clinic-desk-backend/internal/calendar"
	"clinic-desk-backend/internal/metrics"
	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/period"
)

// ErrNoDoctor is returned when a session is initialized without a doctor id.
var ErrNoDoctor = errors.New("doctor id is required")

const (
	resourceProfile   = "profile"
	resourceShifts    = "shifts"
	resourceAllShifts = "all_shifts"
	resourcePatients  = "patients"
)

// Options configures a Session.
type Options struct {
	Vocabulary *period.Vocabulary
	Location   *time.Location
	// ClearErrorOnSuccess clears LastError whenever a load succeeds.
	ClearErrorOnSuccess bool
	Notifier            Notifier
	Now                 func() time.Time
}

// State is a snapshot of the session's view model.
type State struct {
	DoctorID          string                       `json:"doctorId"`
	Profile           *model.DoctorProfile         `json:"profile"`
	Shifts            []model.Shift                `json:"shifts"`
	Patients          []model.Patient              `json:"patients"`
	AddNumberRequests []model.AddNumberApplication `json:"addNumberRequests"`
	Notifications     []model.Notification         `json:"notifications"`
	Busy              bool                         `json:"busy"`
	LastError         string                       `json:"lastError,omitempty"`
	Overrides         int                          `json:"overrides"`
}

// Session is the local state store for one doctor's dashboard. Its fields are written
// only by its own loads and by push frames; all methods are safe for concurrent use.
type Session struct {
	src  Source
	opts Options

	mu            sync.RWMutex
	doctorID      string
	profile       *model.DoctorProfile
	shifts        []model.Shift
	patients      []model.Patient
	addRequests   []model.AddNumberApplication
	notifications []model.Notification
	inflight      int
	lastError     string
	addPrimed     bool

	// registerId -> model.PatientStatus; never expires, survives patient reloads.
	overrides *cache.Cache

	// lifeMu serializes Initialize, Teardown and End.
	lifeMu      sync.Mutex
	subMu       sync.Mutex
	addHandle   Handle
	notifHandle Handle
}

// NewSession creates an empty session reading from src.
func NewSession(src Source, opts Options) *Session {
	if opts.Vocabulary == nil {
		opts.Vocabulary = period.Default()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		src:       src,
		opts:      opts,
		overrides: cache.New(cache.NoExpiration, 0),
	}
}

// Vocabulary returns the time-period vocabulary the session renders with.
func (s *Session) Vocabulary() *period.Vocabulary { return s.opts.Vocabulary }

// Location returns the display timezone.
func (s *Session) Location() *time.Location { return s.opts.Location }

// DoctorID returns the doctor the session was initialized for.
func (s *Session) DoctorID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doctorID
}

// Initialize binds the session to doctorID, loads profile, shifts and patients in that
// order, then opens both push channels. Each load records its own failure and does not
// stop the next one. Concurrent calls run one after another; the last one wins.
func (s *Session) Initialize(ctx context.Context, doctorID string) error {
	if doctorID == "" {
		return ErrNoDoctor
	}
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	s.closeChannels()

	s.mu.Lock()
	if s.doctorID != doctorID {
		s.resetLocked()
	}
	s.doctorID = doctorID
	s.addPrimed = false
	s.mu.Unlock()

	log.Info().Str("doctor_id", doctorID).Msg("initializing dashboard session")
	s.LoadProfile(ctx)
	s.LoadSelfShifts(ctx)
	s.LoadPatients(ctx)
	s.subscribeAll(doctorID)
	return nil
}

// Teardown closes both push channels. It is safe to call when they were never opened.
func (s *Session) Teardown() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	s.closeChannels()
}

// End closes both push channels and unbinds the doctor. Loaded data and overrides are
// dropped, and loads still in flight for the old doctor are discarded.
func (s *Session) End() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	s.closeChannels()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doctorID != "" {
		log.Info().Str("doctor_id", s.doctorID).Msg("dashboard session ended")
	}
	s.resetLocked()
	s.doctorID = ""
	s.addPrimed = false
}

// resetLocked drops everything tied to the current doctor, overrides included.
func (s *Session) resetLocked() {
	s.profile = nil
	s.shifts = nil
	s.patients = nil
	s.addRequests = nil
	s.notifications = nil
	s.lastError = ""
	s.overrides.Flush()
}

func (s *Session) closeChannels() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, h := range []*Handle{&s.addHandle, &s.notifHandle} {
		if *h == nil {
			continue
		}
		if err := (*h).Close(); err != nil {
			log.Warn().Err(err).Msg("closing push channel")
		}
		*h = nil
	}
}

// LoadProfile reloads the doctor's profile.
func (s *Session) LoadProfile(ctx context.Context) {
	doctorID := s.DoctorID()
	if doctorID == "" {
		return
	}
	done := s.begin()
	defer done()

	profile, err := s.src.Profile(ctx, doctorID)
	if err != nil {
		s.fail(resourceProfile, "加载医生信息失败", doctorID, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doctorID != doctorID {
		return
	}
	s.profile = &profile
	s.succeededLocked()
}

// LoadSelfShifts reloads the doctor's own shifts, which back the schedule grid.
func (s *Session) LoadSelfShifts(ctx context.Context) {
	doctorID := s.DoctorID()
	if doctorID == "" {
		return
	}
	done := s.begin()
	defer done()

	shifts, err := s.src.SelfShifts(ctx, doctorID)
	if err != nil {
		s.fail(resourceShifts, "加载排班数据失败", doctorID, err)
		return
	}

	s.mu.Lock()
	if s.doctorID != doctorID {
		s.mu.Unlock()
		return
	}
	s.shifts = shifts
	s.succeededLocked()
	s.mu.Unlock()

	s.reportDropped(doctorID, shifts)
}

// LoadAllShifts fetches shifts of other doctors (all of them when doctorID is empty).
// The session's own shift list is left untouched. On failure the error is recorded
// and an empty list returned.
func (s *Session) LoadAllShifts(ctx context.Context, doctorID string) []model.Shift {
	shifts, err := s.FetchAllShifts(ctx, doctorID)
	if err != nil {
		return []model.Shift{}
	}
	return shifts
}

// FetchAllShifts is LoadAllShifts for callers that need the failure as well.
func (s *Session) FetchAllShifts(ctx context.Context, doctorID string) ([]model.Shift, error) {
	shifts, err := s.src.AllShifts(ctx, doctorID)
	if err != nil {
		s.fail(resourceAllShifts, "加载所有排班数据失败", doctorID, err)
		return nil, err
	}
	s.mu.Lock()
	s.succeededLocked()
	s.mu.Unlock()
	return shifts, nil
}

// LoadPatients reloads the roster. Cached status overrides replace the loaded status.
func (s *Session) LoadPatients(ctx context.Context) {
	doctorID := s.DoctorID()
	if doctorID == "" {
		return
	}
	done := s.begin()
	defer done()

	patients, err := s.src.Patients(ctx, doctorID)
	if err != nil {
		s.fail(resourcePatients, "加载患者列表失败", doctorID, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doctorID != doctorID {
		return
	}
	for i := range patients {
		if status, ok := s.override(patients[i].RegisterID); ok {
			patients[i].PatientStatus = status
		}
	}
	s.patients = patients
	s.succeededLocked()
}

// SetPatientStatusOverride records a local status edit. It wins over loaded statuses
// until cleared, and is applied to the currently loaded roster right away.
func (s *Session) SetPatientStatusOverride(registerID string, status model.PatientStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overrides.Set(registerID, status, cache.NoExpiration)
	for i := range s.patients {
		if s.patients[i].RegisterID == registerID {
			s.patients[i].PatientStatus = status
		}
	}
}

// ClearPatientStatusOverride drops a local status edit; the next load shows the server value.
func (s *Session) ClearPatientStatusOverride(registerID string) {
	s.overrides.Delete(registerID)
}

// PatientStatusOverride returns the cached status for registerID.
func (s *Session) PatientStatusOverride(registerID string) (model.PatientStatus, bool) {
	return s.override(registerID)
}

func (s *Session) override(registerID string) (model.PatientStatus, bool) {
	v, ok := s.overrides.Get(registerID)
	if !ok {
		return 0, false
	}
	status, ok := v.(model.PatientStatus)
	return status, ok
}

// State returns a copy of the current view model.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		DoctorID:          s.doctorID,
		Shifts:            append([]model.Shift{}, s.shifts...),
		Patients:          append([]model.Patient{}, s.patients...),
		AddNumberRequests: append([]model.AddNumberApplication{}, s.addRequests...),
		Notifications:     append([]model.Notification{}, s.notifications...),
		Busy:              s.inflight > 0,
		LastError:         s.lastError,
		Overrides:         s.overrides.ItemCount(),
	}
	if s.profile != nil {
		p := *s.profile
		st.Profile = &p
	}
	return st
}

// Schedule renders the doctor's own shifts as the two-week grid starting today.
func (s *Session) Schedule() calendar.Grid {
	s.mu.RLock()
	shifts := append([]model.Shift{}, s.shifts...)
	s.mu.RUnlock()
	return calendar.Build(shifts, s.opts.Now().In(s.opts.Location), s.opts.Vocabulary)
}

// Run reloads shifts and patients every interval until ctx is done.
func (s *Session) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("dashboard refresh loop shutting down")
			return
		case <-timer.C:
			s.LoadSelfShifts(ctx)
			s.LoadPatients(ctx)
			timer.Reset(interval)
		}
	}
}

func (s *Session) begin() func() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}
}

func (s *Session) fail(resource, text, doctorID string, err error) {
	metrics.LoadFailures.WithLabelValues(resource).Inc()
	log.Error().Err(err).Str("resource", resource).Str("doctor_id", doctorID).Msg("dashboard load failed")

	s.mu.Lock()
	s.lastError = fmt.Sprintf("%s: %v", text, err)
	s.mu.Unlock()
}

func (s *Session) succeededLocked() {
	if s.opts.ClearErrorOnSuccess {
		s.lastError = ""
	}
}

func (s *Session) reportDropped(doctorID string, shifts []model.Shift) {
	grid := calendar.Build(shifts, s.opts.Now().In(s.opts.Location), s.opts.Vocabulary)
	for _, d := range grid.Dropped {
		metrics.DroppedShifts.WithLabelValues(d.Reason).Inc()
		log.Warn().
			Str("doctor_id", doctorID).
			Str("date", d.Shift.Date).
			Int("time_period", d.Shift.TimePeriod).
			Str("schedule_id", d.Shift.ScheduleID).
			Str("reason", d.Reason).
			Msg("shift left out of schedule grid")
	}
}
