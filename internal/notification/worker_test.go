package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"clinic-desk-backend/internal/model"
	"clinic-desk-backend/internal/store"
)

// mockSender is a testify mock of the NotificationSender interface.
type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	args := m.Called(payload, sub, options)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

// mockStore is a mock implementation of the store.Store interface.
type mockStore struct {
	store.Store
	SubscriptionsForDoctorFunc func(ctx context.Context, doctorID string) ([]model.PushSubscription, error)
	DeleteSubscriptionFunc     func(ctx context.Context, endpoint string) error
}

func (m *mockStore) SubscriptionsForDoctor(ctx context.Context, doctorID string) ([]model.PushSubscription, error) {
	return m.SubscriptionsForDoctorFunc(ctx, doctorID)
}

func (m *mockStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return m.DeleteSubscriptionFunc(ctx, endpoint)
}

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(""))}
}

func TestWorkerPool_NewApplications(t *testing.T) {
	testCases := []struct {
		name     string
		apps     []model.AddNumberApplication
		wantBody string
		wantIDs  []string
	}{
		{
			name:     "single application",
			apps:     []model.AddNumberApplication{{AddID: "ADD001", PatientName: "张三", TargetDate: "2025-11-14"}},
			wantBody: "张三 申请加号 (2025-11-14)",
			wantIDs:  []string{"ADD001"},
		},
		{
			name:     "several applications",
			apps:     []model.AddNumberApplication{{AddID: "ADD001"}, {AddID: "ADD002"}},
			wantBody: "收到 2 条新的加号申请",
			wantIDs:  []string{"ADD001", "ADD002"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wp := NewWorkerPool(1, &mockStore{}, &webpush.Options{})
			wp.NewApplications("D001", tc.apps)

			job := <-wp.jobs
			assert.Equal(t, "D001", job.DoctorID)
			assert.Equal(t, "新的加号申请", job.Title)
			assert.Equal(t, tc.wantBody, job.Body)
			assert.Equal(t, tc.wantIDs, job.AddIDs)
		})
	}
}

func TestWorkerPool_NewApplicationsNeverBlocks(t *testing.T) {
	wp := NewWorkerPool(1, &mockStore{}, &webpush.Options{})
	apps := []model.AddNumberApplication{{AddID: "ADD001"}}

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(wp.jobs)+3; i++ {
			wp.NewApplications("D001", apps)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("NewApplications blocked on a full queue")
	}
	assert.Len(t, wp.jobs, cap(wp.jobs))
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	apps := []model.AddNumberApplication{{AddID: "ADD001", PatientName: "张三", TargetDate: "2025-11-14"}}
	alert := applicationsAlert("D001", apps)

	t.Run("sends alert to every subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(2)

		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				var got Alert
				assert.NoError(t, json.Unmarshal(args.Get(0).([]byte), &got))
				assert.Equal(t, alert.Body, got.Body)
				assert.Equal(t, []string{"ADD001"}, got.AddIDs)
				wg.Done()
			}).
			Return(response(http.StatusCreated), nil)

		st := &mockStore{
			SubscriptionsForDoctorFunc: func(ctx context.Context, doctorID string) ([]model.PushSubscription, error) {
				assert.Equal(t, "D001", doctorID)
				return []model.PushSubscription{
					{Endpoint: "https://push.example/1", P256DH: "k1", Auth: "a1"},
					{Endpoint: "https://push.example/2", P256DH: "k2", Auth: "a2"},
				}, nil
			},
		}

		wp := NewWorkerPool(1, st, &webpush.Options{})
		wp.sender = sender
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		wp.Start(ctx)

		wp.NewApplications("D001", apps)
		wg.Wait()
		sender.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		deleted := make(chan string, 1)

		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.MatchedBy(func(sub *webpush.Subscription) bool {
			return sub.Endpoint == "https://push.example/expired" && sub.Keys.P256dh == "k" && sub.Keys.Auth == "a"
		}), mock.Anything).Return(response(http.StatusGone), nil)

		st := &mockStore{
			SubscriptionsForDoctorFunc: func(ctx context.Context, doctorID string) ([]model.PushSubscription, error) {
				return []model.PushSubscription{{Endpoint: "https://push.example/expired", P256DH: "k", Auth: "a"}}, nil
			},
			DeleteSubscriptionFunc: func(ctx context.Context, endpoint string) error {
				deleted <- endpoint
				return nil
			},
		}

		wp := NewWorkerPool(1, st, &webpush.Options{})
		wp.sender = sender
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		wp.Start(ctx)

		wp.NewApplications("D001", apps)
		select {
		case endpoint := <-deleted:
			assert.Equal(t, "https://push.example/expired", endpoint)
		case <-time.After(time.Second):
			t.Fatal("expired subscription was not deleted")
		}
		sender.AssertExpectations(t)
	})

	t.Run("send failure does not stop remaining subscriptions", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(2)

		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.MatchedBy(func(sub *webpush.Subscription) bool {
			return sub.Endpoint == "https://push.example/bad"
		}), mock.Anything).Run(func(mock.Arguments) { wg.Done() }).Return(nil, errors.New("dial tcp: refused"))
		sender.On("Send", mock.Anything, mock.MatchedBy(func(sub *webpush.Subscription) bool {
			return sub.Endpoint == "https://push.example/good"
		}), mock.Anything).Run(func(mock.Arguments) { wg.Done() }).Return(response(http.StatusCreated), nil)

		st := &mockStore{
			SubscriptionsForDoctorFunc: func(ctx context.Context, doctorID string) ([]model.PushSubscription, error) {
				return []model.PushSubscription{{Endpoint: "https://push.example/bad"}, {Endpoint: "https://push.example/good"}}, nil
			},
		}

		wp := NewWorkerPool(1, st, &webpush.Options{})
		wp.sender = sender
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		wp.Start(ctx)

		wp.NewApplications("D001", apps)
		wg.Wait()
		sender.AssertExpectations(t)
	})
}
