package model

import "time"

// StoredSessionID is the primary key of the single remembered session row.
const StoredSessionID = 1

// DoctorSession remembers which doctor the dashboard was last initialized for.
type DoctorSession struct {
	ID        int64     `gorm:"primaryKey"`
	DoctorID  string    `gorm:"size:64;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
