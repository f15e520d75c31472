// Package fixture is an in-memory stand-in for the clinic backend, used for local runs and tests.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"clinic-desk-backend/internal/dashboard"
	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/normalize"
	"clinic-desk-backend/internal/parse"
	"clinic-desk-backend/internal/upstream"
)

// Source serves fixed doctor data and pushes a full collection frame to every open
// subscription whenever that collection changes.
type Source struct {
	mu            sync.Mutex
	profiles      map[string]model.DoctorProfile
	shifts        []model.Shift
	patients      []model.Patient
	records       map[string][]model.RegisterRecord
	applications  []model.AddNumberApplication
	notifications []model.Notification
	subs          map[*subscription]struct{}
}

type subscription struct {
	src      *Source
	stream   dashboard.Stream
	doctorID string
	onFrame  func([]byte)
}

func (s *subscription) Close() error {
	s.src.mu.Lock()
	delete(s.src.subs, s)
	s.src.mu.Unlock()
	return nil
}

// New builds the fixture data set around today.
func New(today time.Time) *Source {
	day := func(offset int) string { return today.AddDate(0, 0, offset).Format(parse.DateLayout) }

	return &Source{
		profiles: map[string]model.DoctorProfile{
			"D001": {DoctorID: "D001", Account: "wang", Name: "王建国", Department: "内科", Title: "主任医师", ClinicID: "C01"},
			"D002": {DoctorID: "D002", Account: "li", Name: "李芳", Department: "内科", Title: "副主任医师", ClinicID: "C01"},
		},
		shifts: []model.Shift{
			{ScheduleID: "S001", Date: day(0), TimePeriod: 1, DoctorName: "王建国", DoctorID: "D001", ClinicPlace: "门诊楼201"},
			{ScheduleID: "S002", Date: day(0), TimePeriod: 1, DoctorName: "李芳", DoctorID: "D002", ClinicPlace: "门诊楼202"},
			{ScheduleID: "S003", Date: day(1), TimePeriod: 2, DoctorName: "王建国", DoctorID: "D001", ClinicPlace: "门诊楼201"},
			{ScheduleID: "S004", Date: day(3), TimePeriod: 3, DoctorName: "李芳", DoctorID: "D002"},
			{ScheduleID: "S005", Date: day(4), TimePeriod: 1, DoctorName: "王建国", DoctorID: "D001"},
			{ScheduleID: "S006", Date: day(8), TimePeriod: 2, DoctorName: "王建国", DoctorID: "D001", ClinicPlace: "门诊楼305"},
		},
		patients: []model.Patient{
			{Name: "赵敏", RegisterID: "R1001", Gender: "女", Age: 34, ScheduleDate: day(0), TimePeriod: 1, PatientStatus: model.PatientWaiting},
			{Name: "钱伟", RegisterID: "R1002", Gender: "男", Age: 58, ScheduleDate: day(0), TimePeriod: 1, PatientStatus: model.PatientNotArrived},
			{Name: "孙丽", RegisterID: "R1003", Gender: "女", Age: 27, ScheduleDate: day(1), TimePeriod: 2, PatientStatus: model.PatientNotArrived},
		},
		records: map[string][]model.RegisterRecord{
			"R1001": {{RegisterID: "R1001", PatientID: "P2001", RegisterTime: day(-1) + "T16:20:00", Department: "内科", ScheduleDate: day(0)}},
			"R1002": {{RegisterID: "R1002", PatientID: "P2002", RegisterTime: day(-2) + "T08:05:00", Department: "内科", ScheduleDate: day(0)}},
			"R1003": {{RegisterID: "R1003", PatientID: "P2003", RegisterTime: day(0) + "T07:45:00", Department: "内科", ScheduleDate: day(1)}},
		},
		applications: []model.AddNumberApplication{
			{
				AddID:            "ADD001",
				PatientName:      "张三",
				ApplyTime:        "2025-11-14T09:30:00",
				TargetDate:       "2025-11-14",
				TargetTimePeriod: 2,
				Note:             "患者突发高烧39.5度,伴有咳嗽症状,急需就诊。家属已在医院等候,恳请医生加号处理。",
			},
			{
				AddID:            "ADD002",
				PatientName:      "李四",
				ApplyTime:        "2025-11-14T10:15:00",
				TargetDate:       "2025-11-15",
				TargetTimePeriod: 1,
				Note:             "因临时出差无法按原预约时间就诊,希望能够加号到明天上午时段。患者已提前完成相关检查。",
			},
		},
		notifications: []model.Notification{
			{ID: "NOTIF001", Title: "排班变更通知", Content: "您的11月20日下午班次已被调整至11月21日上午，请注意查看最新排班表。", CreatedAt: today.Format(time.RFC3339)},
			{ID: "NOTIF002", Title: "系统维护通知", Content: "系统将于本周六凌晨2:00-4:00进行例行维护，期间可能无法访问，请提前安排工作。", CreatedAt: today.Add(-time.Hour).Format(time.RFC3339)},
			{ID: "NOTIF003", Title: "紧急通知", Content: "医院将于下周一举行全体医护人员培训会议，请所有医生准时参加。", CreatedAt: today.Add(-2 * time.Hour).Format(time.RFC3339)},
		},
		subs: make(map[*subscription]struct{}),
	}
}

// Profile returns the doctor's profile.
func (s *Source) Profile(ctx context.Context, doctorID string) (model.DoctorProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[doctorID]
	if !ok {
		return model.DoctorProfile{}, fmt.Errorf("%w: doctor %s", upstream.ErrNotFound, doctorID)
	}
	return p, nil
}

// SelfShifts returns the doctor's own shifts.
func (s *Source) SelfShifts(ctx context.Context, doctorID string) ([]model.Shift, error) {
	return s.AllShifts(ctx, doctorID)
}

// AllShifts returns every shift, or one doctor's when doctorID is set.
func (s *Source) AllShifts(ctx context.Context, doctorID string) ([]model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Shift{}
	for _, sh := range s.shifts {
		if doctorID == "" || sh.DoctorID == doctorID {
			out = append(out, sh)
		}
	}
	return out, nil
}

// Patients returns the roster.
func (s *Source) Patients(ctx context.Context, doctorID string) ([]model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Patient{}, s.patients...), nil
}

// RegisterRecords returns the registration records of one visit.
func (s *Source) RegisterRecords(ctx context.Context, registerID, doctorID string) ([]model.RegisterRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, ok := s.records[registerID]
	if !ok {
		return nil, fmt.Errorf("%w: register %s", upstream.ErrNotFound, registerID)
	}
	return append([]model.RegisterRecord{}, recs...), nil
}

// Subscribe registers a push channel and immediately sends it the current collection.
func (s *Source) Subscribe(stream dashboard.Stream, doctorID string, onFrame func([]byte), onError func(error)) (dashboard.Handle, error) {
	if stream != dashboard.StreamAddNumber && stream != dashboard.StreamNotifications {
		return nil, fmt.Errorf("unknown push channel %s", stream)
	}
	sub := &subscription{src: s, stream: stream, doctorID: doctorID, onFrame: onFrame}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	frame, err := s.frameLocked(stream)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	onFrame(frame)
	return sub, nil
}

// AddApplication appends an add-number application and pushes the new list.
func (s *Source) AddApplication(app model.AddNumberApplication) {
	s.mu.Lock()
	s.applications = append(s.applications, app)
	s.mu.Unlock()
	s.publish(dashboard.StreamAddNumber)
}

// Notify appends a notification and pushes the new list.
func (s *Source) Notify(n model.Notification) {
	s.mu.Lock()
	if n.ID == "" {
		n.ID = "NOTIF-" + uuid.NewString()
	}
	s.notifications = append(s.notifications, n)
	s.mu.Unlock()
	s.publish(dashboard.StreamNotifications)
}

func (s *Source) publish(stream dashboard.Stream) {
	s.mu.Lock()
	frame, err := s.frameLocked(stream)
	var targets []*subscription
	for sub := range s.subs {
		if sub.stream == stream {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Str("channel", string(stream)).Msg("fixture frame encoding failed")
		return
	}
	for _, sub := range targets {
		sub.onFrame(frame)
	}
}

func (s *Source) frameLocked(stream dashboard.Stream) ([]byte, error) {
	var data any
	switch stream {
	case dashboard.StreamAddNumber:
		data = map[string]any{"addApplications": append([]model.AddNumberApplication{}, s.applications...)}
	default:
		data = map[string]any{"notifications": append([]model.Notification{}, s.notifications...)}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(normalize.Envelope{Code: normalize.SuccessCode, Msg: "success", Data: raw})
}
