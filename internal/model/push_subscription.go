package model

import "time"

// PushSubscription holds the information for a browser push subscription of a doctor.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	DoctorID  string    `gorm:"index;size:64;not null"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
