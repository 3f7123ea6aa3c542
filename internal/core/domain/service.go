package domain

import "time"

// ServiceStatus represents the lifecycle state of a contracted service.
type ServiceStatus string

const (
	ServiceNotStarted ServiceStatus = "not_started"
	ServiceInProgress ServiceStatus = "in_progress"
	ServiceCompleted  ServiceStatus = "completed"
	ServiceOnHold     ServiceStatus = "on_hold"
)

// ValidServiceStatus reports whether s is a known service status.
func ValidServiceStatus(s ServiceStatus) bool {
	switch s {
	case ServiceNotStarted, ServiceInProgress, ServiceCompleted, ServiceOnHold:
		return true
	}
	return false
}

// Service is a contracted piece of work for a client. ClientName is joined
// from the client's profile at read time and is never written back.
type Service struct {
	ID          string        `json:"id"`
	ClientID    string        `json:"client_id"`
	ClientName  string        `json:"client_name"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      ServiceStatus `json:"status"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Observation string        `json:"observation,omitempty"`
}
