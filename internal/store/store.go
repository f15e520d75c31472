package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-desk-backend/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for all database operations.
type Store interface {
	// LastDoctorID returns the remembered doctor id, or "" when none is stored.
	LastDoctorID(ctx context.Context) (string, error)
	RememberDoctor(ctx context.Context, doctorID string) error
	ForgetDoctor(ctx context.Context) error

	SaveSubscription(ctx context.Context, sub model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	FindSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	SubscriptionsForDoctor(ctx context.Context, doctorID string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) LastDoctorID(ctx context.Context) (string, error) {
	var sess model.DoctorSession
	err := s.db.WithContext(ctx).First(&sess, model.StoredSessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read stored doctor session: %w", err)
	}
	return sess.DoctorID, nil
}

func (s *gormStore) RememberDoctor(ctx context.Context, doctorID string) error {
	sess := model.DoctorSession{
		ID:        model.StoredSessionID,
		DoctorID:  doctorID,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"doctor_id", "updated_at"}),
	}).Create(&sess).Error
	if err != nil {
		return fmt.Errorf("failed to store doctor session for %s: %w", doctorID, err)
	}
	return nil
}

func (s *gormStore) ForgetDoctor(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&model.DoctorSession{}, model.StoredSessionID).Error; err != nil {
		return fmt.Errorf("failed to delete stored doctor session: %w", err)
	}
	return nil
}

// SaveSubscription creates or replaces the subscription for sub.Endpoint.
func (s *gormStore) SaveSubscription(ctx context.Context, sub model.PushSubscription) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"doctor_id", "p256dh", "auth"}),
	}).Create(&sub).Error
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	res := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) FindSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sub, ErrNotFound
	}
	if err != nil {
		return sub, fmt.Errorf("failed to find subscription: %w", err)
	}
	return sub, nil
}

func (s *gormStore) SubscriptionsForDoctor(ctx context.Context, doctorID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("doctor_id = ?", doctorID).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for doctor %s: %w", doctorID, err)
	}
	return subs, nil
}
