package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog/log"

	"clinic-desk-backend/internal/metrics"
	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/store"
)

// Alert results recorded in metrics.
const (
	resultSent    = "sent"
	resultFailed  = "failed"
	resultExpired = "expired"
	resultDropped = "dropped"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Alert is one message for all of a doctor's registered browsers.
type Alert struct {
	DoctorID string   `json:"-"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	AddIDs   []string `json:"addIds,omitempty"`
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Alert
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Alert, size*4),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Debug().Int("worker", id).Msg("push worker started")
	for {
		select {
		case alert := <-wp.jobs:
			wp.sendAlert(ctx, alert)
		case <-ctx.Done():
			log.Debug().Int("worker", id).Msg("push worker shutting down")
			return
		}
	}
}

// NewApplications alerts the doctor's browsers about add-number applications that just
// arrived. It never blocks; alerts are dropped when the queue is full.
func (wp *WorkerPool) NewApplications(doctorID string, apps []model.AddNumberApplication) {
	if len(apps) == 0 {
		return
	}
	alert := applicationsAlert(doctorID, apps)
	select {
	case wp.jobs <- alert:
	default:
		metrics.PushAlerts.WithLabelValues(resultDropped).Inc()
		log.Warn().Str("doctor_id", doctorID).Int("applications", len(apps)).Msg("push alert queue full; alert dropped")
	}
}

func applicationsAlert(doctorID string, apps []model.AddNumberApplication) Alert {
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.AddID)
	}
	alert := Alert{DoctorID: doctorID, Title: "新的加号申请", AddIDs: ids}
	if len(apps) == 1 {
		alert.Body = fmt.Sprintf("%s 申请加号 (%s)", apps[0].PatientName, apps[0].TargetDate)
	} else {
		alert.Body = fmt.Sprintf("收到 %d 条新的加号申请", len(apps))
	}
	return alert
}

func (wp *WorkerPool) sendAlert(ctx context.Context, alert Alert) {
	subscriptions, err := wp.store.SubscriptionsForDoctor(ctx, alert.DoctorID)
	if err != nil {
		log.Error().Err(err).Str("doctor_id", alert.DoctorID).Msg("fetching push subscriptions")
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		log.Error().Err(err).Msg("encoding push alert")
		return
	}

	log.Info().Str("doctor_id", alert.DoctorID).Int("subscriptions", len(subscriptions)).Msg("sending push alert")
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		metrics.PushAlerts.WithLabelValues(resultFailed).Inc()
		log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("sending push alert")
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions answer 410 Gone.
	if resp.StatusCode == http.StatusGone {
		metrics.PushAlerts.WithLabelValues(resultExpired).Inc()
		log.Info().Str("endpoint", sub.Endpoint).Msg("push subscription expired; deleting")
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("deleting expired push subscription")
		}
		return
	}
	if resp.StatusCode >= 400 {
		metrics.PushAlerts.WithLabelValues(resultFailed).Inc()
		log.Warn().Int("status", resp.StatusCode).Str("endpoint", sub.Endpoint).Msg("push service rejected alert")
		return
	}
	metrics.PushAlerts.WithLabelValues(resultSent).Inc()
}
