package model

// Notification is a read-only item of the doctor's notification stream.
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	Accepted  *bool  `json:"accepted,omitempty"`
}
